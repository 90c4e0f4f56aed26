package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidAddress = errors.New("address must be a 0x-prefixed 20-byte hex string")
	ErrInvalidRequest = errors.New("invalid request body")
	ErrInvalidCaller  = errors.New("caller address is missing or malformed")
)

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a request DTO against its validate tags.
func Validate(request any) error {
	if err := requestValidator.Struct(request); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// NormalizeAddress returns the EIP-55 checksummed form of a hex address so
// identities compare equal regardless of letter case.
func NormalizeAddress(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if !common.IsHexAddress(value) || !strings.HasPrefix(strings.ToLower(value), "0x") {
		return "", ErrInvalidAddress
	}
	return common.HexToAddress(value).Hex(), nil
}

// NormalizeCaller is NormalizeAddress for the identity making the request.
func NormalizeCaller(raw string) (string, error) {
	address, err := NormalizeAddress(raw)
	if err != nil {
		return "", ErrInvalidCaller
	}
	return address, nil
}
