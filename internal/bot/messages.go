package bot

import "fmt"

// User-facing reply strings for the chat surface.
const (
	msgTextChannelOnly    = "❌ テキストチャンネルのみ分析可能です。"
	msgAnalysisError      = "❌ 分析中にエラーが発生しました。"
	msgSavedAnalysisError = "❌ 保存されたプロンプト分析中にエラーが発生しました。"
	msgCommandError       = "❌ コマンド実行中にエラーが発生しました。"
	msgListError          = "❌ プロンプト一覧の取得に失敗しました。"
	msgNoPrompts          = "📝 保存されたプロンプトがありません。\nWebアプリからプロンプトを保存してください。"
)

func msgPromptNotFound(name string) string {
	return fmt.Sprintf("❌ プロンプト「%s」が見つかりません。\n使用可能なプロンプト: `/list-prompts` で確認してください。", name)
}

// resultHeader precedes the generated analysis text. The prompt name part is
// present only when a stored or default prompt participated.
func resultHeader(channelName, promptName string) string {
	if promptName != "" {
		return fmt.Sprintf("**分析結果（#%s） (%s)**\n", channelName, promptName)
	}
	return fmt.Sprintf("**分析結果（#%s）**\n", channelName)
}
