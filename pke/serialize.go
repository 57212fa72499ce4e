package pke

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"

	ggh "github.com/BackendStack21/ggh-go"
	"github.com/BackendStack21/ggh-go/lattice"
	"github.com/BackendStack21/ggh-go/utils"
)

// Key and ciphertext files are plain decimal text:
//
//	private key: N, then N rows of the basis, then N rows of the transform
//	public key:  N, then N rows of the public basis
//	ciphertext:  one coordinate per line
//
// Tokens are separated by any whitespace. There is no header, version or
// checksum; values are read strictly in order.

var (
	// ErrMalformedKey indicates a key file that cannot be parsed.
	ErrMalformedKey = errors.New("malformed key material")

	// ErrMalformedCiphertext indicates a ciphertext file that cannot be parsed.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
)

// SerializePrivateKey serializes a private key to text.
func SerializePrivateKey(sk *ggh.PrivateKey) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePrivateKey(&buf, sk); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializePublicKey serializes a public key to text.
func SerializePublicKey(pk *ggh.PublicKey) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePublicKey(&buf, pk); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SerializeCiphertext serializes a ciphertext to text, one coordinate per line.
func SerializeCiphertext(ct *ggh.Ciphertext) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCiphertext(&buf, ct); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeserializePrivateKey parses a private key.
func DeserializePrivateKey(data []byte) (*ggh.PrivateKey, error) {
	return ReadPrivateKey(bytes.NewReader(data))
}

// DeserializePublicKey parses a public key.
func DeserializePublicKey(data []byte) (*ggh.PublicKey, error) {
	return ReadPublicKey(bytes.NewReader(data))
}

// DeserializeCiphertext parses a ciphertext.
func DeserializeCiphertext(data []byte) (*ggh.Ciphertext, error) {
	return ReadCiphertext(bytes.NewReader(data))
}

// WritePrivateKey writes sk in the private key text format.
func WritePrivateKey(w io.Writer, sk *ggh.PrivateKey) error {
	if err := checkPrivateKeyShape(sk); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	writeDimension(bw, sk.N)
	writeMatrix(bw, sk.Basis)
	writeMatrix(bw, sk.Transform)
	return bw.Flush()
}

// WritePublicKey writes pk in the public key text format.
func WritePublicKey(w io.Writer, pk *ggh.PublicKey) error {
	if err := ValidatePublicKey(pk); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	writeDimension(bw, pk.N)
	writeMatrix(bw, pk.Basis)
	return bw.Flush()
}

// WriteCiphertext writes ct with one coordinate per line.
func WriteCiphertext(w io.Writer, ct *ggh.Ciphertext) error {
	if ct == nil || len(ct.C) == 0 {
		return fmt.Errorf("%w: no coordinates", ErrMalformedCiphertext)
	}
	bw := bufio.NewWriter(w)
	for _, v := range ct.C {
		bw.WriteString(v.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadPrivateKey parses a private key. Extra tokens after the transform are
// rejected.
func ReadPrivateKey(r io.Reader) (*ggh.PrivateKey, error) {
	tr := newTokenReader(r)

	n, err := tr.dimension()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedKey, err)
	}
	basis, err := tr.matrix(n)
	if err != nil {
		return nil, fmt.Errorf("%w: private basis: %w", ErrMalformedKey, err)
	}
	transform, err := tr.matrix(n)
	if err != nil {
		return nil, fmt.Errorf("%w: transform: %w", ErrMalformedKey, err)
	}
	if err := tr.expectEOF(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedKey, err)
	}

	return &ggh.PrivateKey{N: n, Basis: basis, Transform: transform}, nil
}

// ReadPublicKey parses a public key. Extra tokens after the basis are rejected.
func ReadPublicKey(r io.Reader) (*ggh.PublicKey, error) {
	tr := newTokenReader(r)

	n, err := tr.dimension()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedKey, err)
	}
	basis, err := tr.matrix(n)
	if err != nil {
		return nil, fmt.Errorf("%w: public basis: %w", ErrMalformedKey, err)
	}
	if err := tr.expectEOF(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedKey, err)
	}

	return &ggh.PublicKey{N: n, Basis: basis}, nil
}

// ReadCiphertext parses every integer in r as one ciphertext coordinate.
// The coordinate count is not checked here; Decrypt compares it with the key.
func ReadCiphertext(r io.Reader) (*ggh.Ciphertext, error) {
	tr := newTokenReader(r)

	var c lattice.Vector
	for {
		tok, err := tr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedCiphertext, err)
		}
		if err := utils.CheckLength(len(c)+1, utils.MaxDimension); err != nil {
			return nil, fmt.Errorf("%w: more than %d coordinates: %w",
				ErrMalformedCiphertext, utils.MaxDimension, err)
		}
		v, err := parseInt(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: coordinate %d: %w", ErrMalformedCiphertext, len(c), err)
		}
		c = append(c, v)
	}
	if len(c) == 0 {
		return nil, fmt.Errorf("%w: no coordinates", ErrMalformedCiphertext)
	}
	return &ggh.Ciphertext{C: c}, nil
}

func writeDimension(bw *bufio.Writer, n int) {
	bw.WriteString(strconv.Itoa(n))
	bw.WriteByte('\n')
}

func writeMatrix(bw *bufio.Writer, m lattice.Matrix) {
	for _, row := range m {
		for j, v := range row {
			if j > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(v.String())
		}
		bw.WriteByte('\n')
	}
}

// tokenReader splits its input on whitespace.
type tokenReader struct {
	sc *bufio.Scanner
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), utils.MaxTokenLength)
	sc.Split(bufio.ScanWords)
	return &tokenReader{sc: sc}
}

// next returns the next token, or io.EOF at a clean end of input.
func (t *tokenReader) next() (string, error) {
	if t.sc.Scan() {
		return t.sc.Text(), nil
	}
	if err := t.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (t *tokenReader) dimension() (int, error) {
	tok, err := t.next()
	if errors.Is(err, io.EOF) {
		return 0, errors.New("missing dimension")
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid dimension %q", clip(tok))
	}
	if err := utils.CheckDimension(n); err != nil {
		return 0, fmt.Errorf("dimension %d: %w", n, err)
	}
	return n, nil
}

func (t *tokenReader) matrix(n int) (lattice.Matrix, error) {
	m := make(lattice.Matrix, n)
	for i := 0; i < n; i++ {
		m[i] = make([]*big.Int, n)
		for j := 0; j < n; j++ {
			tok, err := t.next()
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("truncated at row %d column %d: %w", i, j, io.ErrUnexpectedEOF)
			}
			if err != nil {
				return nil, err
			}
			v, err := parseInt(tok)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i, j, err)
			}
			m[i][j] = v
		}
	}
	return m, nil
}

func (t *tokenReader) expectEOF() error {
	tok, err := t.next()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("unexpected trailing token %q", clip(tok))
}

func parseInt(tok string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(tok, 10)
	if !ok {
		return nil, fmt.Errorf("non-numeric token %q", clip(tok))
	}
	return v, nil
}

// clip shortens a token for error messages.
func clip(tok string) string {
	if len(tok) > 32 {
		return tok[:32] + "..."
	}
	return tok
}
