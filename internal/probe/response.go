package probe

import (
	"github.com/tidwall/gjson"
)

// DecodeBody turns a raw response body into the two-branch Body value:
// JSON when the bytes parse as a JSON document, raw text otherwise.
// The fallback is unconditional; this function cannot fail.
func DecodeBody(raw []byte) Body {
	if len(raw) == 0 {
		return Body{}
	}
	if !gjson.ValidBytes(raw) {
		return Body{Text: string(raw)}
	}
	return Body{JSON: gjson.ParseBytes(raw).Value()}
}

// Classify maps an outcome onto the three-way verdict. It reads the
// status code and nothing else: 2xx passes, 401/403 signals an
// auth-gated endpoint exercised without credentials, everything else
// (including status 0 for transport failures) fails.
func Classify(o Outcome) Verdict {
	switch {
	case o.StatusCode >= 200 && o.StatusCode < 300:
		return Pass
	case o.StatusCode == 401 || o.StatusCode == 403:
		return AuthRequired
	default:
		return Fail
	}
}
