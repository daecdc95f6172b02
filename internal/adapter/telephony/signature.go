package telephony

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

// ValidateSignature checks the X-Twilio-Signature header for a webhook POST.
// The signed payload is the full request URL followed by the form parameters
// sorted by key, each appended as key then value.
func ValidateSignature(authToken, requestURL string, form url.Values, signature string) bool {
	if authToken == "" || signature == "" {
		return false
	}

	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var payload strings.Builder
	payload.WriteString(requestURL)
	for _, k := range keys {
		payload.WriteString(k)
		if vs := form[k]; len(vs) > 0 {
			payload.WriteString(vs[0])
		}
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(payload.String()))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
