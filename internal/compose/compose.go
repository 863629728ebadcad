// Package compose builds the system/user text pair sent to the completion
// model from a freeform instruction, an optional stored default prompt, and
// rendered channel history.
package compose

import (
	"strings"
	"unicode/utf8"

	"github.com/kayz/kaiseki/internal/store"
)

// DefaultSystemPrompt is the persona used when no default prompt is configured.
const DefaultSystemPrompt = `あなたは有能なコミュニティマネージャーです。

回答のポイント：
- 具体的で実現可能な提案
- コミュニティの特性を考慮
- 分かりやすく構造化
- 日本語で回答`

// detailedInputThreshold is the instruction length (in runes) above which the
// freeform instruction takes priority over the default prompt body.
const detailedInputThreshold = 20

// Composed is the ephemeral system/user pair handed to the completion client.
type Composed struct {
	System string
	User   string
}

// Compose builds the system prompt and instruction body for one invocation.
// The result carries no channel/history context; chat invocations wrap it
// with WithContext afterwards.
//
// With a default prompt, a short instruction is framed as direction over the
// default prompt's body, while a detailed one (longer than the threshold)
// demotes the default prompt to reference material. Without a default prompt
// the instruction stands alone under the fixed persona.
func Compose(userInput string, def *store.Prompt) Composed {
	if def == nil {
		return Composed{
			System: DefaultSystemPrompt,
			User:   "【分析指示】\n" + userInput,
		}
	}

	var body string
	if utf8.RuneCountInString(userInput) > detailedInputThreshold {
		body = "【主要な分析指示】\n" + userInput + "\n\n【参考情報】\n" + def.UserPrompt
	} else {
		body = "【分析指示】\n" + userInput + "\n\n【分析の方向性】\n" + def.UserPrompt
	}

	return Composed{
		System: def.SystemPrompt,
		User:   body,
	}
}

// WithContext wraps an instruction body with the channel label and rendered
// history block, producing the final user string for the chat command path.
// An empty channel name falls back to "general".
func WithContext(c Composed, channelName, historyBlock string) Composed {
	if channelName == "" {
		channelName = "general"
	}

	var out strings.Builder
	out.WriteString("【分析対象】: #")
	out.WriteString(channelName)
	out.WriteString("\n\n【会話履歴】\n")
	out.WriteString(historyBlock)
	out.WriteString("\n\n【分析指示】\n")
	out.WriteString(c.User)
	out.WriteString("\n\n上記の指示に基づいて分析してください。")

	return Composed{
		System: c.System,
		User:   strings.TrimSpace(out.String()),
	}
}

// Preview builds the pair for the web test endpoint: the supplied system
// prompt and the bare instruction body, with no channel/history wrapping.
func Preview(systemPrompt, userPrompt string) Composed {
	c := Compose(userPrompt, nil)
	c.System = systemPrompt
	return c
}
