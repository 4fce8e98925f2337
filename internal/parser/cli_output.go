package parser

import (
	"encoding/json"
	"strings"
)

type streamEvent struct {
	Type    string `json:"type"`
	Result  string `json:"result"`
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

// ParseStreamJSON extracts the final answer from Claude CLI stream-json
// output (one JSON event per line). The "result" event wins when present
// because it already holds the complete answer; otherwise text blocks from
// assistant events are concatenated. Malformed lines are skipped.
func ParseStreamJSON(input string) string {
	var assistant strings.Builder
	result := ""

	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var ev streamEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		switch ev.Type {
		case "assistant":
			for _, c := range ev.Message.Content {
				if c.Type == "text" {
					assistant.WriteString(c.Text)
				}
			}
		case "result":
			if ev.Result != "" {
				result = ev.Result
			}
		}
	}

	if result != "" {
		return result
	}
	return assistant.String()
}

type codexEvent struct {
	Type string `json:"type"`
	Item struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"item"`
}

// ParseCodexJSONL extracts the last agent message from Codex CLI --json
// output. Only item.completed events carrying agent or assistant messages
// count; the final one is the answer.
func ParseCodexJSONL(input string) string {
	last := ""
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var ev codexEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		if ev.Type != "item.completed" {
			continue
		}
		switch ev.Item.Type {
		case "agent_message", "assistant_message":
			if ev.Item.Text != "" {
				last = ev.Item.Text
			}
		}
	}
	return last
}
