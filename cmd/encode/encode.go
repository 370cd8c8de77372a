// Package encode implements `subx encode` (SPEC_FULL §4.11): a pure,
// offline run of the C1, C2 and C5 extrinsic steps (version detection,
// extension schema, encoder) against a small JSON
// description of a call and its extensions, printing the resulting hex
// extrinsic. It never touches a Provider.
package encode

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chapool/go-substrate-client/internal/chaininfo"
	"github.com/chapool/go-substrate-client/internal/extrinsic"
	"github.com/chapool/go-substrate-client/internal/rawregistry"
)

const fileFlag = "file"

// requestExtension is one entry of the JSON request's extension schema.
type requestExtension struct {
	Identifier       string `json:"identifier"`
	TypeID           uint32 `json:"typeId"`
	IncludesInBlock  bool   `json:"includesInBlock"`
	IncludesInSigned bool   `json:"includesInSigned"`
	ZeroSized        bool   `json:"zeroSized"`
}

// request is the `subx encode` input document.
type request struct {
	MetadataVersion   int                `json:"metadataVersion"`
	ExtrinsicVersions []int              `json:"extrinsicVersions"`
	Extensions        []requestExtension `json:"extensions"`
	CallDataHex       string             `json:"callDataHex"`

	// Signer/SignatureHex/SignatureType are optional; when SignatureHex
	// is empty the command emits an unsigned extrinsic instead.
	SignerHex        string            `json:"signerHex"`
	SignatureHex     string            `json:"signatureHex"`
	SignatureType    string            `json:"signatureType"`
	ExtensionValues  map[string]string `json:"extensionValuesHex"`
	AdditionalSigned map[string]string `json:"additionalSignedValuesHex"`
}

// New returns the `encode` subcommand.
func New() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Run the offline extrinsic construction pipeline against a JSON request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readRequest(cmd, file)
			if err != nil {
				return err
			}

			out, err := run(raw)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, fileFlag, "", "path to the JSON request (defaults to stdin)")

	return cmd
}

func readRequest(cmd *cobra.Command, file string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	return io.ReadAll(cmd.InOrStdin())
}

func run(raw []byte) (string, error) {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		return "", errors.Wrap(err, "failed to decode encode request")
	}

	callData, err := decodeHex(req.CallDataHex)
	if err != nil {
		return "", errors.Wrap(err, "callDataHex")
	}

	info, err := buildChainInfo(req)
	if err != nil {
		return "", err
	}

	enc := extrinsic.NewEncoder(info)

	if req.SignatureHex == "" {
		out, err := enc.EncodeUnsigned(callData)
		if err != nil {
			return "", err
		}
		return "0x" + hex.EncodeToString(out), nil
	}

	signed, err := buildSignedData(req, callData)
	if err != nil {
		return "", err
	}

	out, err := enc.Encode(signed)
	if err != nil {
		return "", err
	}

	return "0x" + hex.EncodeToString(out), nil
}

func buildChainInfo(req request) (chaininfo.ChainInfo, error) {
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
	}, nil
}

func buildSignedData(req request, callData []byte) (extrinsic.SignedData, error) {
	signer, err := decodeHex(req.SignerHex)
	if err != nil {
		return extrinsic.SignedData{}, errors.Wrap(err, "signerHex")
	}

	sig, err := decodeHex(req.SignatureHex)
	if err != nil {
		return extrinsic.SignedData{}, errors.Wrap(err, "signatureHex")
	}

	sigType := parseSignatureType(req.SignatureType, sig)

	values := extrinsic.NewExtensionValues()
	for identifier, hexValue := range req.ExtensionValues {
		b, err := decodeHex(hexValue)
		if err != nil {
			return extrinsic.SignedData{}, errors.Wrapf(err, "extensionValuesHex[%s]", identifier)
		}
		values.Extensions[identifier] = b
	}
	for identifier, hexValue := range req.AdditionalSigned {
		b, err := decodeHex(hexValue)
		if err != nil {
			return extrinsic.SignedData{}, errors.Wrapf(err, "additionalSignedValuesHex[%s]", identifier)
		}
		values.AdditionalSigned[identifier] = b
	}

	return extrinsic.SignedData{
		Signer:        signer,
		Signature:     sig,
		SignatureType: sigType,
		Extensions:    values,
		CallData:      callData,
	}, nil
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
