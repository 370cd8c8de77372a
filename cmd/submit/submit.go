// Package submit implements `subx submit` (SPEC_FULL §4.11): the full
// online submission pipeline, generalized from the teacher's
// ProcessWithdraw flow (internal/wallet/withdraw/service.go) which
// builds a request, fetches account state, signs, and submits in one
// call. Here that becomes C6 (fetch chain data) → C3 (fill extensions)
// → C4 (build the signing payload) → an external signer → C5 (encode
// the wire bytes) → C8 (broadcast and stream results).
//
// Signing itself is out of scope (spec §1: cryptographic primitives are
// consumed, not implemented), so this command runs in two phases the
// same way an offline-signing wallet would: called without a signature,
// it prints the signing payload hex for an external signer to sign;
// called again with --signature-hex, it encodes and broadcasts.
package submit

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chapool/go-substrate-client/internal/broadcast"
	"github.com/chapool/go-substrate-client/internal/chaindata"
	"github.com/chapool/go-substrate-client/internal/chainhead"
	"github.com/chapool/go-substrate-client/internal/chaininfo"
	"github.com/chapool/go-substrate-client/internal/extrinsic"
	"github.com/chapool/go-substrate-client/internal/provider"
	"github.com/chapool/go-substrate-client/internal/rawregistry"
	"github.com/chapool/go-substrate-client/internal/util"
	"github.com/chapool/go-substrate-client/internal/util/command"
)

const (
	rpcFlag  = "rpc"
	fileFlag = "file"
)

// requestExtension mirrors cmd/encode's schema entry shape (spec §4.11).
type requestExtension struct {
	Identifier       string `json:"identifier"`
	TypeID           uint32 `json:"typeId"`
	IncludesInBlock  bool   `json:"includesInBlock"`
	IncludesInSigned bool   `json:"includesInSigned"`
	ZeroSized        bool   `json:"zeroSized"`
}

// request is the `subx submit` input document: the call plus the account
// and mortality knobs ExtensionBuilder needs. AccountHex is both the
// MultiAddress account id and the account whose nonce is fetched.
type request struct {
	MetadataVersion   int                `json:"metadataVersion"`
	ExtrinsicVersions []int              `json:"extrinsicVersions"`
	Extensions        []requestExtension `json:"extensions"`
	CallDataHex       string             `json:"callDataHex"`
	AccountHex        string             `json:"accountHex"`
	EraPeriod         uint64             `json:"eraPeriod"`
	Tip               uint64             `json:"tip"`

	// SignatureHex/SignatureType are supplied on the second run, once an
	// external signer has produced a signature over the printed payload.
	SignatureHex  string `json:"signatureHex"`
	SignatureType string `json:"signatureType"`
}

// New returns the `submit` subcommand.
func New() *cobra.Command {
	var (
		rpcURLs []string
		file    string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Fetch chain data, build a signing payload, and (once signed) broadcast an extrinsic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readRequest(cmd, file)
			if err != nil {
				return err
			}

			var req request
			if err := json.Unmarshal(raw, &req); err != nil {
				return errors.Wrap(err, "failed to decode submit request")
			}

			sessionLog := log.With().Str("command", "submit").Strs("rpc_urls", rpcURLs).Logger()
			ctx := util.WithLogger(cmd.Context(), sessionLog)

			return command.WithProvider(ctx, rpcURLs, func(ctx context.Context, p provider.Provider) error {
				return run(ctx, cmd, p, req)
			})
		},
	}

	cmd.Flags().StringSliceVar(&rpcURLs, rpcFlag, nil, "one or more RPC endpoint URLs (failover order)")
	cmd.Flags().StringVar(&file, fileFlag, "", "path to the JSON request (defaults to stdin)")
	_ = cmd.MarkFlagRequired(rpcFlag)

	return cmd
}

func readRequest(cmd *cobra.Command, file string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	return io.ReadAll(cmd.InOrStdin())
}

func run(ctx context.Context, cmd *cobra.Command, p provider.Provider, req request) error {
	out := cmd.OutOrStdout()

	callData, err := decodeHex(req.CallDataHex)
	if err != nil {
		return errors.Wrap(err, "callDataHex")
	}
	account, err := decodeHex(req.AccountHex)
	if err != nil {
		return errors.Wrap(err, "accountHex")
	}

	info := buildChainInfo(req)
	schema := extrinsic.NewSchema(info)

	session, err := chainhead.Follow(ctx, p, false, nil)
	if err != nil {
		return errors.Wrap(err, "failed to open chainHead session")
	}
	defer func() { _ = session.Unfollow(context.Background()) }()

	blockHash, err := awaitInitialized(ctx, session)
	if err != nil {
		return err
	}

	data, err := chaindata.NewFetcher(p).Fetch(ctx, session.SubscriptionID(), blockHash, account)
	if err != nil {
		return errors.Wrap(err, "failed to fetch chain data")
	}

	builder := extrinsic.NewExtensionBuilder(info.Types, schema)
	builder.SetStandardExtensions(*data, req.EraPeriod, req.Tip)
	if err := builder.Validate(); err != nil {
		return err
	}

	payload, err := extrinsic.BuildSigningPayload(info.Types, schema, callData, builder.Values())
	if err != nil {
		return err
	}

	if req.SignatureHex == "" {
		summary := builder.Summary()
		fmt.Fprintf(out, "unsigned signing_payload=0x%s extensions=%v additional_signed=%v\n",
			hex.EncodeToString(payload), summary.Extensions, summary.AdditionalSigned)
		return nil
	}

	sig, err := decodeHex(req.SignatureHex)
	if err != nil {
		return errors.Wrap(err, "signatureHex")
	}

	enc := extrinsic.NewEncoder(info)
	wireBytes, err := enc.Encode(extrinsic.SignedData{
		Signer:         account,
		Signature:      sig,
		SignatureType:  parseSignatureType(req.SignatureType, sig),
		Extensions:     builder.Values(),
		CallData:       callData,
		SigningPayload: payload,
	})
	if err != nil {
		return err
	}

	submission, err := broadcast.Broadcast(ctx, p, wireBytes)
	if err != nil {
		return errors.Wrap(err, "failed to broadcast extrinsic")
	}
	defer func() { _ = submission.Stop(context.Background()) }()

	fmt.Fprintf(out, "broadcast operation_id=%s\n", submission.OperationID)

	for {
		select {
		case msg, ok := <-submission.Results():
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "status=%s\n", string(msg.Result))
		case <-ctx.Done():
			return nil
		}
	}
}

// awaitInitialized blocks until the session's first Initialized event,
// which carries the finalized block hash chainHead_v1_call/header reads
// need (spec §4.6: "the caller's first event is always initialized").
func awaitInitialized(ctx context.Context, session *chainhead.Session) (string, error) {
	for {
		select {
		case event, ok := <-session.Events():
			if !ok {
				return "", errors.New("chainHead session closed before an initialized event arrived")
			}
			if init, ok := event.(chainhead.Initialized); ok {
				return init.FinalizedBlockHash, nil
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func buildChainInfo(req request) chaininfo.ChainInfo {
	versions := make(map[int]struct{}, len(req.ExtrinsicVersions))
	for _, v := range req.ExtrinsicVersions {
		versions[v] = struct{}{}
	}

	var zeroSized []uint32
	extensions := make([]chaininfo.Extension, 0, len(req.Extensions))
	for _, e := range req.Extensions {
		extensions = append(extensions, chaininfo.Extension{
			Identifier:       e.Identifier,
			TypeID:           e.TypeID,
			IncludesInBlock:  e.IncludesInBlock,
			IncludesInSigned: e.IncludesInSigned,
		})
		if e.ZeroSized {
			zeroSized = append(zeroSized, e.TypeID)
		}
	}

	return chaininfo.ChainInfo{
		MetadataVersion: req.MetadataVersion,
		Extrinsic: chaininfo.ExtrinsicDescriptor{
			Versions:   versions,
			Extensions: extensions,
		},
		Types: rawregistry.New(zeroSized...),
	}
}

func parseSignatureType(name string, sig []byte) extrinsic.SignatureType {
	switch strings.ToLower(name) {
	case "ed25519":
		return extrinsic.SignatureEd25519
	case "sr25519":
		return extrinsic.SignatureSr25519
	case "ecdsa":
		return extrinsic.SignatureEcdsa
	default:
		return extrinsic.InferSignatureType(sig)
	}
}

func decodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
