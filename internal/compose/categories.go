package compose

// CategoryInfo describes one analysis category for display and form defaults.
type CategoryInfo struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Template    string `json:"template"`
	Color       string `json:"color"`
}

// Categories is the single source of truth for the fixed category set.
// The composer itself never branches on these; they are display metadata.
var Categories = map[string]CategoryInfo{
	"event": {
		Label:       "イベント提案",
		Description: "コミュニティの会話からイベント案を提案",
		Template:    "このコミュニティで盛り上がっているトピックを基に、具体的なイベント案を提案してください。",
		Color:       "blue",
	},
	"engagement": {
		Label:       "エンゲージメント向上",
		Description: "コミュニティの活性化策を提案",
		Template:    "このコミュニティの会話を分析し、エンゲージメント向上のための施策を提案してください。",
		Color:       "green",
	},
	"moderation": {
		Label:       "モデレーション支援",
		Description: "コミュニティの健全性を分析",
		Template:    "このコミュニティの会話を分析し、モデレーションの改善点を指摘してください。",
		Color:       "amber",
	},
	"custom": {
		Label:       "カスタム分析",
		Description: "独自の分析プロンプトを作成",
		Template:    "",
		Color:       "gray",
	},
}

// CategoryOrder lists the categories in display order.
var CategoryOrder = []string{"event", "engagement", "moderation", "custom"}

// SampleHistory is filler conversation history for previews in the admin UI.
const SampleHistory = `- **ユーザーA**: 今日は天気がいいですね！
- **ユーザーB**: そうですね！散歩に行こうかな
- **ユーザーC**: プログラミングの勉強も進めたいです
- **ユーザーA**: 何かおすすめの技術書ありますか？
- **ユーザーB**: 最近はAI関連の本が面白いですよ
- **ユーザーC**: そうですね！AI勉強会とか開催してみませんか？
- **ユーザーA**: いいアイデアですね！参加したいです
- **ユーザーB**: 私も参加します！
- **ユーザーC**: では、来週の土曜日に開催しましょう
- **ユーザーA**: 楽しみにしています！`
