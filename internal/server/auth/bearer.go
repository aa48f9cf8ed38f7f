package auth

import (
	"fmt"
	"strings"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/common"
)

// ExtractBearerToken returns the token from an Authorization header value.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", common.ErrMissingAuthHeader
	}
	if !strings.HasPrefix(header, common.BearerScheme) {
		return "", fmt.Errorf("%w: expected %q scheme", common.ErrMalformedAuthHeader, strings.TrimSpace(common.BearerScheme))
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, common.BearerScheme))
	if token == "" {
		return "", fmt.Errorf("%w: empty token", common.ErrMalformedAuthHeader)
	}
	return token, nil
}
