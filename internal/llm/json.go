package llm

import (
	"regexp"
	"strings"
)

var codeBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// CleanJSONResponse strips markdown fences and any prose around the first
// JSON object or array in an LLM reply.
func CleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)
	if matches := codeBlockPattern.FindStringSubmatch(response); len(matches) > 1 {
		response = strings.TrimSpace(matches[1])
	}

	start := strings.IndexAny(response, "{[")
	if start < 0 {
		return response
	}
	closer := byte('}')
	if response[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(response, closer)
	if end < start {
		return response[start:]
	}
	return response[start : end+1]
}
