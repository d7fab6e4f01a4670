package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader carries the gateway signature in the form
// t=<unix-timestamp>,v1=<hex hmac-sha256 of "<timestamp>.<body>">.
const SignatureHeader = "Gateway-Signature"

// signatureTolerance bounds how old (or how far in the future) a signed
// timestamp may be before the notification is rejected as a replay.
const signatureTolerance = 5 * time.Minute

// VerifySignature authenticates a raw webhook payload against its signature
// header. It fails closed: a missing secret, a malformed header, a stale
// timestamp, or a signature mismatch all reject the notification.
func VerifySignature(payload []byte, header string, secret string) error {
	return verifySignatureAt(payload, header, secret, time.Now())
}

func verifySignatureAt(payload []byte, header string, secret string, now time.Time) error {
	if secret == "" {
		return NewInvalidSignatureError("No webhook signing secret configured", nil)
	}
	if header == "" {
		return NewInvalidSignatureError("Signature header is missing", nil)
	}

	timestamp, signature, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	age := now.Sub(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return NewInvalidSignatureError(fmt.Sprintf("Signed timestamp %d is outside the accepted tolerance", timestamp), nil)
	}

	expected := ComputeSignature(payload, secret, timestamp)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return NewInvalidSignatureError("Signature does not match the payload", nil)
	}

	return nil
}

// ComputeSignature is the one canonical signing scheme:
// hex(hmac-sha256(secret, "<timestamp>.<body>")).
func ComputeSignature(payload []byte, secret string, timestamp int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)

	return hex.EncodeToString(mac.Sum(nil))
}

func parseSignatureHeader(header string) (int64, string, error) {
	var timestamp int64
	var signature string

	for part := range strings.SplitSeq(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}

		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, "", NewInvalidSignatureError(fmt.Sprintf("Timestamp %q in signature header is not an integer", value), err)
			}
			timestamp = ts
		case "v1":
			signature = value
		}
	}

	if timestamp == 0 || signature == "" {
		return 0, "", NewInvalidSignatureError("Signature header is missing the t or v1 component", nil)
	}

	return timestamp, signature, nil
}
