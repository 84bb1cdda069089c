package infrastructure

import (
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"service-admission/internal/infrastructure/codec"
)

// ErrInvalidPatch is returned when a patch cannot be decoded or applied.
var ErrInvalidPatch = errors.New("invalid group patch")

// ApplyGroupPatch applies an RFC 6902 patch to a group document and returns the result.
func ApplyGroupPatch(original codec.GroupDocument, patchData []byte) (codec.GroupDocument, error) {
	originalJSON, err := json.Marshal(original)
	if err != nil {
		return original, fmt.Errorf("encode group: %w", err)
	}

	patch, err := jsonpatch.DecodePatch(patchData)
	if err != nil {
		return original, fmt.Errorf("%w: decode: %v", ErrInvalidPatch, err)
	}

	modifiedJSON, err := patch.Apply(originalJSON)
	if err != nil {
		return original, fmt.Errorf("%w: apply: %v", ErrInvalidPatch, err)
	}

	var updated codec.GroupDocument
	if err := json.Unmarshal(modifiedJSON, &updated); err != nil {
		return original, fmt.Errorf("%w: patched group: %v", ErrInvalidPatch, err)
	}
	return updated, nil
}
