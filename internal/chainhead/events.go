package chainhead

import (
	"encoding/json"

	"github.com/chapool/go-substrate-client/internal/rpcerr"
)

// Event is the typed sum type discriminated from the raw `event` field of
// a chainHead_v1_follow subscription message (spec §4.6, §9: "tagged
// variant / sum type keyed by the wire event string"). Each concrete
// type below implements eventTag purely to seal the set to this package.
type Event interface {
	eventTag() string
}

type Initialized struct {
	FinalizedBlockHash    string
	FinalizedBlockRuntime json.RawMessage
}

func (Initialized) eventTag() string { return "initialized" }

type NewBlock struct {
	BlockHash       string
	ParentBlockHash string
	NewRuntime      json.RawMessage
}

func (NewBlock) eventTag() string { return "newBlock" }

type BestBlockChanged struct {
	BestBlockHash string
}

func (BestBlockChanged) eventTag() string { return "bestBlockChanged" }

type Finalized struct {
	FinalizedBlockHashes []string
	PrunedBlockHashes    []string
}

func (Finalized) eventTag() string { return "finalized" }

// Stop signals that the session has ceased server-side; the session
// transitions to inactive on receiving it (spec §3 ChainHeadSession).
type Stop struct{}

func (Stop) eventTag() string { return "stop" }

type OperationBodyDone struct {
	OperationID string
	Value       []string // hex-encoded extrinsics
}

func (OperationBodyDone) eventTag() string { return "operationBodyDone" }

type OperationCallDone struct {
	OperationID string
	Output      string
}

func (OperationCallDone) eventTag() string { return "operationCallDone" }

// OperationStorageItems is a partial batch; more may follow before
// OperationStorageDone (spec §4.6).
type OperationStorageItems struct {
	OperationID string
	Items       []json.RawMessage
}

func (OperationStorageItems) eventTag() string { return "operationStorageItems" }

type OperationStorageDone struct {
	OperationID string
}

func (OperationStorageDone) eventTag() string { return "operationStorageDone" }

type OperationError struct {
	OperationID string
	Error       string
}

func (OperationError) eventTag() string { return "operationError" }

// OperationInaccessible fires when the origin block was unpinned before
// the operation completed (spec §4.6).
type OperationInaccessible struct {
	OperationID string
}

func (OperationInaccessible) eventTag() string { return "operationInaccessible" }

// wireEvent is the union of every field any event tag may carry; parsing
// fills in only the fields relevant to the discriminated tag. The client
// never synthesizes events, only discriminates and forwards (spec §4.6).
type wireEvent struct {
	Event                 string            `json:"event"`
	FinalizedBlockHash    string            `json:"finalizedBlockHash"`
	FinalizedBlockHashes  []string          `json:"finalizedBlockHashes"`
	FinalizedBlockRuntime json.RawMessage   `json:"finalizedBlockRuntime"`
	BlockHash             string            `json:"blockHash"`
	ParentBlockHash       string            `json:"parentBlockHash"`
	NewRuntime            json.RawMessage   `json:"newRuntime"`
	BestBlockHash         string            `json:"bestBlockHash"`
	PrunedBlockHashes     []string          `json:"prunedBlockHashes"`
	OperationID           string            `json:"operationId"`
	Value                 []string          `json:"value"`
	Output                string            `json:"output"`
	Items                 []json.RawMessage `json:"items"`
	Error                 string            `json:"error"`
}

// parseEvent discriminates a raw chainHead_v1_follow notification payload
// into its typed Event, raising UnknownChainHeadEvent for any tag this
// package does not recognize (spec §4.6, §9).
func parseEvent(raw []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}

	switch w.Event {
	case "initialized":
		hash := w.FinalizedBlockHash
		if hash == "" && len(w.FinalizedBlockHashes) > 0 {
			hash = w.FinalizedBlockHashes[0]
		}
		return Initialized{FinalizedBlockHash: hash, FinalizedBlockRuntime: w.FinalizedBlockRuntime}, nil
	case "newBlock":
		return NewBlock{BlockHash: w.BlockHash, ParentBlockHash: w.ParentBlockHash, NewRuntime: w.NewRuntime}, nil
	case "bestBlockChanged":
		return BestBlockChanged{BestBlockHash: w.BestBlockHash}, nil
	case "finalized":
		return Finalized{FinalizedBlockHashes: w.FinalizedBlockHashes, PrunedBlockHashes: w.PrunedBlockHashes}, nil
	case "stop":
		return Stop{}, nil
	case "operationBodyDone":
		return OperationBodyDone{OperationID: w.OperationID, Value: w.Value}, nil
	case "operationCallDone":
		return OperationCallDone{OperationID: w.OperationID, Output: w.Output}, nil
	case "operationStorageItems":
		return OperationStorageItems{OperationID: w.OperationID, Items: w.Items}, nil
	case "operationStorageDone":
		return OperationStorageDone{OperationID: w.OperationID}, nil
	case "operationError":
		return OperationError{OperationID: w.OperationID, Error: w.Error}, nil
	case "operationInaccessible":
		return OperationInaccessible{OperationID: w.OperationID}, nil
	default:
		return nil, rpcerr.UnknownChainHeadEvent(w.Event)
	}
}
