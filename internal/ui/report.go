package ui

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/ssh"

	"github.com/Amr-9/YggHunter/pkg/generator"
)

const separator = "======================================="

// ReportWriter prints results in one of the supported formats. Each report
// is written as a single block, whatever the number of callers.
type ReportWriter struct {
	mu     sync.Mutex
	out    io.Writer
	format string
}

// NewReportWriter returns a writer for format "text", "json" or "ssh".
func NewReportWriter(out io.Writer, format string) (*ReportWriter, error) {
	switch format {
	case "text", "json", "ssh":
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
	return &ReportWriter{out: out, format: format}, nil
}

// Write prints r.
func (w *ReportWriter) Write(r *generator.Result) error {
	var block []byte
	var err error
	switch w.format {
	case "json":
		block, err = json.Marshal(r)
		block = append(block, '\n')
	case "ssh":
		block, err = sshBlock(r)
	default:
		block = textBlock(r)
	}
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.out.Write(block)
	return err
}

func textBlock(r *generator.Result) []byte {
	return fmt.Appendf(nil, "%s\nPrivateKey: %s\nPublicKey: %s\nAddress: %s\nHeight: %d\n%s\n",
		separator,
		hex.EncodeToString(r.PrivateKey),
		hex.EncodeToString(r.PublicKey),
		r.Address,
		r.Height,
		separator)
}

// sshBlock renders the key pair as an authorized_keys line followed by an
// OpenSSH private key, both commented with the address.
func sshBlock(r *generator.Result) ([]byte, error) {
	if len(r.PrivateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("private key has %d bytes, want %d", len(r.PrivateKey), ed25519.PrivateKeySize)
	}
	pub, err := ssh.NewPublicKey(ed25519.PublicKey(r.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("ssh public key: %w", err)
	}
	priv, err := ssh.MarshalPrivateKey(ed25519.PrivateKey(r.PrivateKey), r.Address)
	if err != nil {
		return nil, fmt.Errorf("ssh private key: %w", err)
	}

	authorized := ssh.MarshalAuthorizedKey(pub)
	out := fmt.Appendf(nil, "# %s height %d\n", r.Address, r.Height)
	out = append(out, authorized[:len(authorized)-1]...)
	out = append(out, ' ')
	out = append(out, r.Address...)
	out = append(out, '\n')
	return append(out, pem.EncodeToMemory(priv)...), nil
}
