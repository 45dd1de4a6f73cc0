package repo

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/pem"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/xgit-dev/xgit/pkg/object"
)

// SSH signature verification for commits and tags signed with
// gpg.format=ssh. The armored container follows openssh's PROTOCOL.sshsig:
// a PEM block holding MAGIC "SSHSIG", a version, the public key, the
// namespace ("git" for git objects), a hash algorithm and the signature
// over the hashed payload.

const (
	sshSigMagic     = "SSHSIG"
	sshSigNamespace = "git"
)

// AllowedSigner is one line of an allowed-signers file: principals that
// may sign, and their public key.
type AllowedSigner struct {
	Principals []string
	Key        ssh.PublicKey
}

// ParseAllowedSigners parses allowed-signers data: one
// "principal[,principal...] keytype base64" line each; blank lines and #
// comments are skipped.
func ParseAllowedSigners(data []byte) ([]AllowedSigner, error) {
	var signers []AllowedSigner
	for lineNo, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		principals, keyPart, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("allowed signers line %d: %w: no key", lineNo+1, ErrInvalidArgument)
		}
		key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(keyPart))
		if err != nil {
			return nil, fmt.Errorf("allowed signers line %d: %w", lineNo+1, err)
		}
		signers = append(signers, AllowedSigner{
			Principals: strings.Split(principals, ","),
			Key:        key,
		})
	}
	return signers, nil
}

// VerifyResult reports a successful signature check.
type VerifyResult struct {
	KeyType     string
	Fingerprint string
	Principal   string // empty when no allowed-signers list was given
}

type sshSigEnvelope struct {
	Version       uint32
	PublicKey     []byte
	Namespace     string
	Reserved      string
	HashAlgorithm string
	Signature     []byte
}

type sshSignedData struct {
	Namespace     string
	Reserved      string
	HashAlgorithm string
	Hash          []byte
}

// VerifySSHSignature checks an armored SSHSIG block against the payload it
// claims to sign. With a non-empty signers list the signing key must also
// appear there; the matching principal is reported.
func VerifySSHSignature(payload []byte, armored string, signers []AllowedSigner) (*VerifyResult, error) {
	// Re-folded blocks lose their trailing newline; PEM wants one.
	block, _ := pem.Decode([]byte(strings.TrimSpace(armored) + "\n"))
	if block == nil || block.Type != "SSH SIGNATURE" {
		return nil, fmt.Errorf("%w: not an SSH signature block", ErrInvalidArgument)
	}
	if !bytes.HasPrefix(block.Bytes, []byte(sshSigMagic)) {
		return nil, fmt.Errorf("%w: bad SSHSIG magic", ErrInvalidArgument)
	}

	var env sshSigEnvelope
	if err := ssh.Unmarshal(block.Bytes[len(sshSigMagic):], &env); err != nil {
		return nil, fmt.Errorf("parse SSH signature: %w", err)
	}
	if env.Version != 1 {
		return nil, fmt.Errorf("%w: unsupported SSHSIG version %d", ErrInvalidArgument, env.Version)
	}
	if env.Namespace != sshSigNamespace {
		return nil, fmt.Errorf("%w: signature namespace %q, want %q", ErrInvalidArgument, env.Namespace, sshSigNamespace)
	}

	var digest []byte
	switch env.HashAlgorithm {
	case "sha512":
		sum := sha512.Sum512(payload)
		digest = sum[:]
	case "sha256":
		sum := sha256.Sum256(payload)
		digest = sum[:]
	default:
		return nil, fmt.Errorf("%w: unsupported hash algorithm %q", ErrInvalidArgument, env.HashAlgorithm)
	}

	pub, err := ssh.ParsePublicKey(env.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	var sig ssh.Signature
	if err := ssh.Unmarshal(env.Signature, &sig); err != nil {
		return nil, fmt.Errorf("parse signature: %w", err)
	}

	signed := append([]byte(sshSigMagic), ssh.Marshal(sshSignedData{
		Namespace:     env.Namespace,
		Reserved:      env.Reserved,
		HashAlgorithm: env.HashAlgorithm,
		Hash:          digest,
	})...)
	if err := pub.Verify(signed, &sig); err != nil {
		return nil, fmt.Errorf("signature does not verify: %w", err)
	}

	result := &VerifyResult{
		KeyType:     pub.Type(),
		Fingerprint: ssh.FingerprintSHA256(pub),
	}
	if len(signers) == 0 {
		return result, nil
	}
	marshaled := pub.Marshal()
	for _, signer := range signers {
		if bytes.Equal(signer.Key.Marshal(), marshaled) {
			if len(signer.Principals) > 0 {
				result.Principal = signer.Principals[0]
			}
			return result, nil
		}
	}
	return nil, fmt.Errorf("signing key %s not in allowed signers: %w", result.Fingerprint, ErrNotFound)
}

// VerifySignature verifies the SSH signature on a commit. The signed
// payload is the raw commit body with the gpgsig header removed, exactly
// as git constructed it.
func (c *Commit) VerifySignature(ctx context.Context, signers []AllowedSigner) (*VerifyResult, error) {
	sig, err := c.GPGSig(ctx)
	if err != nil {
		return nil, err
	}
	if sig == "" {
		return nil, fmt.Errorf("commit %s is not signed: %w", c.hash, ErrNotFound)
	}
	if !strings.HasPrefix(sig, sshBeginMarker) {
		return nil, fmt.Errorf("commit %s: %w: only SSH signatures can be verified", c.hash, ErrInvalidArgument)
	}
	raw, err := readAllObject(ctx, c.repo, object.TypeCommit, c.hash)
	if err != nil {
		return nil, err
	}
	return VerifySSHSignature(stripGpgsigHeader(raw), sig, signers)
}

// VerifySignature verifies the SSH signature trailing a tag body. The
// signed payload is everything before the signature block.
func (t *TagObject) VerifySignature(ctx context.Context, signers []AllowedSigner) (*VerifyResult, error) {
	sig, err := t.Signature(ctx)
	if err != nil {
		return nil, err
	}
	if sig == "" {
		return nil, fmt.Errorf("tag %s is not signed: %w", t.hash, ErrNotFound)
	}
	if !strings.HasPrefix(sig, sshBeginMarker) {
		return nil, fmt.Errorf("tag %s: %w: only SSH signatures can be verified", t.hash, ErrInvalidArgument)
	}
	raw, err := readAllObject(ctx, t.repo, object.TypeTag, t.hash)
	if err != nil {
		return nil, err
	}
	idx := bytes.Index(raw, []byte(sshBeginMarker))
	if idx < 0 {
		return nil, fmt.Errorf("tag %s: %w: signature block not found in body", t.hash, ErrMalformedObject)
	}
	return VerifySSHSignature(raw[:idx], sig, signers)
}

const sshBeginMarker = "-----BEGIN SSH SIGNATURE-----"

func readAllObject(ctx context.Context, r *Repository, typ object.Type, hash object.Hash) ([]byte, error) {
	rc, err := r.run.Binary(ctx, "cat-file", string(typ), string(hash))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", typ, hash, err)
	}
	raw, err := io.ReadAll(rc)
	cerr := rc.Close()
	if err != nil {
		return nil, fmt.Errorf("%s %s: read: %w", typ, hash, err)
	}
	if cerr != nil {
		return nil, fmt.Errorf("%s %s: %w", typ, hash, cerr)
	}
	return raw, nil
}

// stripGpgsigHeader removes the gpgsig header (and its space-indented
// continuation lines) from a raw commit body, byte-exactly.
func stripGpgsigHeader(raw []byte) []byte {
	var out []byte
	inHeaders := true
	inSig := false
	for len(raw) > 0 {
		nl := bytes.IndexByte(raw, '\n')
		var line []byte
		if nl < 0 {
			line, raw = raw, nil
		} else {
			line, raw = raw[:nl+1], raw[nl+1:]
		}
		trimmed := bytes.TrimRight(line, "\n")
		if inHeaders && len(trimmed) == 0 {
			inHeaders = false
			inSig = false
		}
		if inHeaders {
			if bytes.HasPrefix(trimmed, []byte("gpgsig ")) {
				inSig = true
				continue
			}
			if inSig && bytes.HasPrefix(line, []byte(" ")) {
				continue
			}
			inSig = false
		}
		out = append(out, line...)
	}
	return out
}
