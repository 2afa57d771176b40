package mexc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Sign returns the lowercase hex HMAC-SHA256 of payload keyed by secret.
func Sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignQuery appends timestamp and signature to q and returns the final
// encoded string. The signature covers every field that precedes it.
func SignQuery(q *Query, secret string, timestampMs int64) string {
	q.add("timestamp", strconv.FormatInt(timestampMs, 10))
	payload := q.String()
	q.add("signature", Sign(secret, payload))
	return q.String()
}
