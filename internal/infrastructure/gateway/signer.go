package gateway

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
)

// Authorization header layout: a detached ed25519 signature over the
// blake2b-512 digest of the body, framed by created/expires unix
// timestamps. The counterparty verifies with the registry public key.
const signatureAlgorithm = "ed25519"

func digestOf(payload []byte) string {
	sum := blake2b.Sum512(payload)
	return "BLAKE-512=" + base64.StdEncoding.EncodeToString(sum[:])
}

func signingString(created, expires int64, digest string) string {
	return fmt.Sprintf("(created): %d\n(expires): %d\ndigest: %s", created, expires, digest)
}

func (g *DefaultGateway) Sign(payload []byte) (string, error) {
	created := time.Now().Unix()
	expires := created + g.signatureTTL

	signature := ed25519.Sign(g.privateKey, []byte(signingString(created, expires, digestOf(payload))))

	header := fmt.Sprintf(
		`Signature keyId="%s|%s|%s",algorithm="%s",created="%d",expires="%d",headers="(created) (expires) digest",signature="%s"`,
		g.subscriberID, g.uniqueKeyID, signatureAlgorithm,
		signatureAlgorithm, created, expires,
		base64.StdEncoding.EncodeToString(signature),
	)
	return header, nil
}

func (g *DefaultGateway) Verify(authHeader string, body []byte, publicKey string) error {
	params, err := parseSignatureHeader(authHeader)
	if err != nil {
		return domain.NewValidationError(domain.CodeInvalidSignature, err.Error())
	}

	created, err := strconv.ParseInt(params["created"], 10, 64)
	if err != nil {
		return domain.NewValidationError(domain.CodeInvalidSignature, "invalid created timestamp")
	}
	expires, err := strconv.ParseInt(params["expires"], 10, 64)
	if err != nil {
		return domain.NewValidationError(domain.CodeInvalidSignature, "invalid expires timestamp")
	}
	now := time.Now().Unix()
	if now < created || now > expires {
		return domain.NewValidationError(domain.CodeInvalidSignature, "signature expired")
	}

	rawKey, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil || len(rawKey) != ed25519.PublicKeySize {
		return domain.NewValidationError(domain.CodeInvalidSignature, "malformed signing public key")
	}
	rawSignature, err := base64.StdEncoding.DecodeString(params["signature"])
	if err != nil {
		return domain.NewValidationError(domain.CodeInvalidSignature, "malformed signature")
	}

	message := []byte(signingString(created, expires, digestOf(body)))
	if !ed25519.Verify(ed25519.PublicKey(rawKey), message, rawSignature) {
		return domain.NewValidationError(domain.CodeInvalidSignature, "signature verification failed")
	}
	return nil
}

func parseSignatureHeader(header string) (map[string]string, error) {
	const prefix = "Signature "
	if !strings.HasPrefix(header, prefix) {
		return nil, fmt.Errorf("authorization header is not a Signature")
	}
	params := make(map[string]string)
	for _, part := range strings.Split(header[len(prefix):], ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return nil, fmt.Errorf("malformed signature parameter %q", part)
		}
		params[key] = strings.Trim(value, `"`)
	}
	for _, required := range []string{"keyId", "created", "expires", "signature"} {
		if params[required] == "" {
			return nil, fmt.Errorf("signature parameter %s is missing", required)
		}
	}
	return params, nil
}
