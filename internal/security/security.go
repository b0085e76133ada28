// Package security screens free-text questions before they reach the
// completion service and assembles injection-resistant prompts.
package security

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxQuestionLen caps user questions.
	MaxQuestionLen = 500
	// MaxContextChars caps how much stored document text a prompt carries.
	MaxContextChars = 4000
)

// FallbackSentence is what the model is told to answer when the context
// does not contain the requested information.
const FallbackSentence = "The requested information cannot be found in the provided PDF content."

// suspiciousPatterns are case-insensitive markers of prompt-injection
// attempts: role-label spoofing, instruction overrides, and embedded
// JSON/markup structure.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)system:`),
	regexp.MustCompile(`(?i)assistant:`),
	regexp.MustCompile(`(?i)user:`),
	regexp.MustCompile(`(?i)ignore previous`),
	regexp.MustCompile(`(?i)ignore above`),
	regexp.MustCompile(`(?i)forget`),
	regexp.MustCompile(`(?i)new prompt`),
	regexp.MustCompile(`\{.*\}`), // JSON-like object
	regexp.MustCompile(`<.*>`),   // HTML/XML tag
}

var bracketChars = regexp.MustCompile(`[<>{}]`)

// TruncateRunes cuts s to at most max characters. Limits here count
// characters, not bytes, so CJK text keeps its full budget and a
// multi-byte rune is never split.
func TruncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// ValidateQuestion checks a question for emptiness, length, and injection
// markers. On rejection it returns false plus a user-facing reason.
func ValidateQuestion(question string) (bool, string) {
	if strings.TrimSpace(question) == "" {
		return false, "Question is empty."
	}
	if utf8.RuneCountInString(question) > MaxQuestionLen {
		return false, fmt.Sprintf("Question is too long (max %d characters).", MaxQuestionLen)
	}
	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(question) {
			return false, "Question contains invalid input."
		}
	}
	return true, ""
}

// Sanitize strips angle and curly brackets, collapses whitespace runs to
// single spaces, and trims.
func Sanitize(text string) string {
	text = bracketChars.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

const promptTemplate = `You are an assistant that answers questions about the content of a PDF document.
Answer the question using ONLY the PDF content provided below, in the same language as the document.
If the information cannot be found in the PDF content, answer exactly: "%s"

PDF content:
%s

Question:
%s

Answer:`

// BuildSafePrompt truncates the context to maxContextChars (marking the
// cut with an ellipsis), sanitizes both inputs, and interpolates them
// into the fixed QA template.
func BuildSafePrompt(question, context string, maxContextChars int) string {
	if truncated := TruncateRunes(context, maxContextChars); truncated != context {
		context = truncated + "..."
	}
	return fmt.Sprintf(promptTemplate, FallbackSentence, Sanitize(context), Sanitize(question))
}
