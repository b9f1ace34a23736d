package request

import "strings"

type ClientType string

const (
	ClientWeb    ClientType = "web"
	ClientCLI    ClientType = "cli"
	ClientMobile ClientType = "mobile"
)

// ResolveClientType trusts X-Client-Type first and falls back to the user agent.
func ResolveClientType(header, userAgent string) ClientType {
	switch ClientType(strings.ToLower(strings.TrimSpace(header))) {
	case ClientWeb:
		return ClientWeb
	case ClientCLI:
		return ClientCLI
	case ClientMobile:
		return ClientMobile
	}

	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "mozilla"):
		return ClientWeb
	case strings.Contains(ua, "android"), strings.Contains(ua, "iphone"):
		return ClientMobile
	default:
		return ClientCLI
	}
}

func IsWebClient(t ClientType) bool {
	return t == ClientWeb
}
