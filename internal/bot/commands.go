package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kayz/kaiseki/internal/store"
)

const (
	cmdAnalyze      = "analyze"
	cmdAnalyzeSaved = "analyze-saved"
	cmdListPrompts  = "list-prompts"

	optChannel    = "channel"
	optPrompt     = "prompt"
	optPromptName = "prompt-name"
)

// previewRunes bounds the prompt previews shown by /list-prompts.
const previewRunes = 150

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        cmdAnalyze,
			Description: "指定したチャンネルの最新メッセージを GPT で分析します",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         optChannel,
					Description:  "分析対象のテキストチャンネル",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					Required:     true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optPrompt,
					Description: "分析プロンプト（例：次のイベント案を出してください）",
					Required:    true,
				},
			},
		},
		{
			Name:        cmdAnalyzeSaved,
			Description: "保存されたプロンプトを使用してチャンネルを分析します",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         optChannel,
					Description:  "分析対象のテキストチャンネル",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					Required:     true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optPromptName,
					Description: "使用するプロンプトの名前",
					Required:    true,
				},
			},
		},
		{
			Name:        cmdListPrompts,
			Description: "保存されたプロンプトの一覧を表示します",
		},
	}
}

// promptListMessage renders the /list-prompts reply.
func promptListMessage(prompts []*store.Prompt) string {
	if len(prompts) == 0 {
		return msgNoPrompts
	}

	entries := make([]string, 0, len(prompts))
	for _, p := range prompts {
		entries = append(entries, fmt.Sprintf("• **%s** (%s)\n  📝 システムプロンプト: %s...\n  💬 ユーザープロンプト: %s...",
			p.Name, p.AnalysisType, truncateRunes(p.SystemPrompt, previewRunes), truncateRunes(p.UserPrompt, previewRunes)))
	}

	return "📝 **保存されたプロンプト一覧**\n\n" +
		strings.Join(entries, "\n\n") +
		"\n\n使用するには: `/analyze-saved channel:#チャンネル名 prompt-name:プロンプト名`"
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
