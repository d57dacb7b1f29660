// Package identity derives deterministic instance identity for cards.
//
// Equal resolved inputs always map to the same instance, so repeated calls
// share state without the caller passing tokens around. The public instance
// id is a truncated digest of the inputs; the storage key embeds a
// reversible encoding of the same inputs so operators can read keys back
// during debugging.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cardframe/cardframe-go/cards"
)

// DefaultTokenLength is the number of digest hex characters used for
// instance ids when the resolver does not override it.
const DefaultTokenLength = 6

// Instance identifies one card instance.
type Instance struct {
	// ID is the short public token embedded in markup and share links.
	ID string

	// Key is the durable storage key, "card:<name>:<segment>".
	Key string
}

// Resolver derives instance identity from resolved inputs. The zero value
// uses DefaultTokenLength.
type Resolver struct {
	// TokenLength is the number of digest hex characters kept for instance
	// ids. Values outside (0, 64] fall back to DefaultTokenLength.
	TokenLength int
}

// Resolve derives the identity of the instance addressed by the resolved
// inputs. callerID is folded into the identity only for PerCaller cards.
//
// Cards with a custom state-key function control the key segment
// themselves: when the result contains a colon, the part after the final
// colon becomes the public id; otherwise the whole result serves as both.
// All other cards, and custom keys that come back empty, get a digest id
// over the sorted "key=value" serialization of their inputs, and a storage
// key embedding a query-escaped form of that same serialization. Resolve
// never fails.
func (r Resolver) Resolve(card *cards.Card, inputs map[string]any, callerID string) Instance {
	if card.StateKey != nil {
		if segment := card.StateKey(inputs, callerID); segment != "" {
			id := segment
			if i := strings.LastIndex(segment, ":"); i >= 0 {
				id = segment[i+1:]
			}
			return Instance{ID: id, Key: cardKey(card.Name, segment)}
		}
	}

	serialized := canonical(card, inputs, callerID, false)
	sum := sha256.Sum256([]byte(serialized))
	id := hex.EncodeToString(sum[:])[:r.tokenLength()]

	encoded := url.QueryEscape(canonical(card, inputs, callerID, true))
	return Instance{ID: id, Key: cardKey(card.Name, encoded)}
}

func (r Resolver) tokenLength() int {
	if r.TokenLength <= 0 || r.TokenLength > 64 {
		return DefaultTokenLength
	}
	return r.TokenLength
}

func cardKey(name, segment string) string {
	return "card:" + name + ":" + segment
}

// canonical renders inputs as "key=value" pairs sorted lexicographically by
// key and joined with "&". Sorting makes the serialization independent of
// input order. With mask set, sensitive values are replaced by a value
// digest so the result can be embedded in readable storage keys.
func canonical(card *cards.Card, inputs map[string]any, callerID string, mask bool) string {
	type pair struct{ k, v string }

	pairs := make([]pair, 0, len(inputs)+1)
	for k, v := range inputs {
		val := stringify(v)
		if mask && card.Inputs[k].Sensitive {
			val = maskValue(val)
		}
		pairs = append(pairs, pair{k: k, v: val})
	}
	if card.PerCaller && callerID != "" {
		// "$" keeps the synthetic key out of the input namespace.
		pairs = append(pairs, pair{k: "$caller", v: callerID})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.k + "=" + p.v
	}
	return strings.Join(parts, "&")
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

func maskValue(v string) string {
	sum := sha256.Sum256([]byte(v))
	return "sha256:" + hex.EncodeToString(sum[:])[:8]
}

// NewInstanceToken returns a short random identifier minted for cards that
// create a new instance per call. This is the engine's one deliberate
// source of non-determinism.
func NewInstanceToken() string {
	return uuid.NewString()[:8]
}
