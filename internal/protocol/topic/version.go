package topic

// Version is the protocol version token carried by agent, state and app topics.
type Version int

const (
	V1 Version = iota
)

var versionTokens = map[Version]string{
	V1: "v1",
}

func (v Version) String() string {
	if token, ok := versionTokens[v]; ok {
		return token
	}
	return "unknown"
}

// ParseVersion maps a version token to its Version.
func ParseVersion(token string) (Version, error) {
	for v, t := range versionTokens {
		if t == token {
			return v, nil
		}
	}
	return 0, &ParseError{Kind: ErrUnknownVersionToken, Segment: token}
}
