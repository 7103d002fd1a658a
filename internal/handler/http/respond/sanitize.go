package respond

import "regexp"

var (
	// anthropic first: the openai pattern would match its prefix
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)

	dbPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)

	discordWebhookPattern = regexp.MustCompile(`(discord(?:app)?\.com/api/webhooks/\d+/)[A-Za-z0-9_-]+`)
	slackWebhookPattern   = regexp.MustCompile(`(hooks\.slack\.com/services/)[A-Za-z0-9/]+`)
)

// SanitizeError masks API keys, DSN passwords and webhook tokens in err's message.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = discordWebhookPattern.ReplaceAllString(msg, "${1}****")
	msg = slackWebhookPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
