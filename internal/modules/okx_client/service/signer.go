package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"
)

// timestampLayout - ISO-8601 UTC с миллисекундами, как ждёт OKX.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Signer считает OK-ACCESS-SIGN: base64(HMAC-SHA256(secret, ts+METHOD+path+body)).
type Signer struct {
	secret []byte
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, &ConfigError{Field: "okx.secret_key"}
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign - path вместе с query-строкой, body пустой для GET.
func (s *Signer) Sign(ts, method, requestPath, body string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(ts + strings.ToUpper(method) + requestPath + body))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// SignedRequest - ровно тот кортеж, который уходит на биржу.
type SignedRequest struct {
	Timestamp string
	Method    string
	Path      string
	Body      []byte
	Signature string
}

func (s *Signer) SignRequest(at time.Time, method, requestPath string, body []byte) SignedRequest {
	ts := Timestamp(at)
	method = strings.ToUpper(method)
	return SignedRequest{
		Timestamp: ts,
		Method:    method,
		Path:      requestPath,
		Body:      body,
		Signature: s.Sign(ts, method, requestPath, string(body)),
	}
}

func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
