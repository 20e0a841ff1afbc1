package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefix for content-addressed model identity. The version suffix
// enables future canonical-form migration without hash collisions.
const DomainModel = "schedc/model/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ModelHash computes the content-addressed identity of a model spec. Stable
// across restarts and edge/group map iteration order, so the schedule store
// can tell "same model, repair the prior schedule" from "new model, schedule
// from scratch".
func ModelHash(spec ModelSpec) (string, error) {
	canonical, err := MarshalCanonical(spec)
	if err != nil {
		return "", fmt.Errorf("ModelHash: %w", err)
	}
	return hashWithDomain(DomainModel, canonical), nil
}
