package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zgsm-ai/tool-reply/internal/types"
)

// Fingerprint derives the deterministic cache key for a formatting request.
// Two requests identical in tool id, category, style, agent id, success flag
// and result payload share a fingerprint; timestamps, context ids, persona
// and conversation history are intentionally excluded.
func Fingerprint(fc *types.FormattingContext, style types.ResponseStyle) string {
	payload := stablePayload(fc.Result.Data)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%t|%s",
		fc.Result.ToolID,
		fc.Category,
		style,
		fc.AgentID,
		fc.Result.Success,
		payload,
	)

	return hex.EncodeToString(h.Sum(nil))
}

// stablePayload serializes the result payload deterministically.
// encoding/json sorts map keys at every nesting level, so equal payloads
// always produce equal bytes.
func stablePayload(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		// Unserializable payloads still need a stable key component
		return fmt.Sprintf("unserializable:%d", len(data))
	}
	return string(encoded)
}
