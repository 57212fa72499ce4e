package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BackendStack21/ggh-go/pke"
)

const testSeedHex = "5c13e788029d41b65c13e788029d41b65c13e788029d41b65c13e788029d41b6"

// runCLI executes the command line in-process and captures its output.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = run(args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestHelpAndVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	if !strings.Contains(stdout, "ggh-cli - GGH lattice") {
		t.Fatalf("help output does not contain expected header, got: %s", stdout)
	}

	stdout, _, err = runCLI(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(stdout, version) {
		t.Errorf("version output missing %q: %s", version, stdout)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, _, err := runCLI(t, "frobnicate"); !errors.Is(err, errUsage) {
		t.Errorf("expected errUsage, got %v", err)
	}
	if _, _, err := runCLI(t); !errors.Is(err, errUsage) {
		t.Errorf("expected errUsage for empty command line, got %v", err)
	}
}

func TestEncryptDecryptFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	encrypted := filepath.Join(dir, "enc.txt")
	decrypted := filepath.Join(dir, "dec.txt")
	sk := filepath.Join(dir, "private.key")
	pk := filepath.Join(dir, "public.key")
	writeFile(t, input, "Hello")

	stdout, _, err := runCLI(t, "encrypt", "--input", input, "--output", encrypted,
		"--private-key", sk, "--public-key-out", pk, "--seed", testSeedHex, "--max-attempts", "10000")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if !strings.HasPrefix(stdout, "Hello") {
		t.Errorf("encrypt should echo the plaintext, got %q", stdout)
	}

	for _, f := range []string{sk, pk, encrypted} {
		info, err := os.Stat(f)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", f, err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("%s has mode %v, want 0600", f, info.Mode().Perm())
		}
	}

	data, _ := os.ReadFile(encrypted)
	if lines := strings.Count(string(data), "\n"); lines != 5 {
		t.Errorf("ciphertext has %d lines, want 5", lines)
	}

	stdout, _, err = runCLI(t, "decrypt", "--input", encrypted, "--output", decrypted, "--private-key", sk)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if strings.TrimSpace(stdout) != "Hello" {
		t.Errorf("decrypt stdout = %q, want Hello", stdout)
	}
	got, _ := os.ReadFile(decrypted)
	if string(got) != "Hello" {
		t.Errorf("decrypted file = %q, want Hello", got)
	}
}

func TestEncryptDefaultPaths(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer os.Chdir(wd)

	writeFile(t, defaultInputFile, "defaults\n")
	if _, _, err := runCLI(t, "encrypt", "--seed", testSeedHex); err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if _, _, err := runCLI(t, "decrypt"); err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	got, err := os.ReadFile(defaultDecryptedFile)
	if err != nil {
		t.Fatalf("reading %s: %v", defaultDecryptedFile, err)
	}
	if string(got) != "defaults\n" {
		t.Errorf("decrypted = %q, want %q", got, "defaults\n")
	}
}

func TestKeygenThenEncryptWithPublicKey(t *testing.T) {
	dir := t.TempDir()
	sk := filepath.Join(dir, "k.priv")
	pk := filepath.Join(dir, "k.pub")
	input := filepath.Join(dir, "msg.txt")
	encrypted := filepath.Join(dir, "msg.enc")
	decrypted := filepath.Join(dir, "msg.dec")

	stdout, _, err := runCLI(t, "keygen", "--dimension", "7", "--private-key", sk, "--public-key-out", pk)
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}
	if !strings.Contains(stdout, "Public key fingerprint:") {
		t.Errorf("keygen output missing fingerprint: %s", stdout)
	}

	writeFile(t, input, "seven!!")
	if _, _, err := runCLI(t, "encrypt", "--public-key", pk, "--input", input, "--output", encrypted); err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if _, _, err := runCLI(t, "decrypt", "--private-key", sk, "--input", encrypted, "--output", decrypted); err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	got, _ := os.ReadFile(decrypted)
	if string(got) != "seven!!" {
		t.Errorf("decrypted = %q", got)
	}

	// the plaintext length must match the key dimension
	writeFile(t, input, "too short")
	_, _, err = runCLI(t, "encrypt", "--public-key", pk, "--input", input, "--output", encrypted)
	if !errors.Is(err, pke.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestDecryptCorruptKey(t *testing.T) {
	dir := t.TempDir()
	sk := filepath.Join(dir, "private.key")
	encrypted := filepath.Join(dir, "enc.txt")

	writeFile(t, sk, "2\n1 0\n0 1\n1 1\n0 0\n")
	writeFile(t, encrypted, "3\n4\n")

	_, _, err := runCLI(t, "decrypt", "--private-key", sk, "--input", encrypted, "--output", filepath.Join(dir, "out"))
	if !errors.Is(err, pke.ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}

	writeFile(t, sk, "2\n1 0\n0 1\n1 1\n")
	_, _, err = runCLI(t, "decrypt", "--private-key", sk, "--input", encrypted, "--output", filepath.Join(dir, "out"))
	if !errors.Is(err, pke.ErrMalformedKey) {
		t.Errorf("expected ErrMalformedKey, got %v", err)
	}
}

func TestEncryptMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runCLI(t, "encrypt", "--input", filepath.Join(dir, "missing.txt"),
		"--output", filepath.Join(dir, "enc.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}

	empty := filepath.Join(dir, "empty.txt")
	writeFile(t, empty, "")
	if _, _, err := runCLI(t, "encrypt", "--input", empty, "--output", filepath.Join(dir, "enc.txt")); err == nil {
		t.Error("empty plaintext should be rejected")
	}
}

func TestKeySearchExhausted(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runCLI(t, "keygen", "--dimension", "3", "--threshold", "1e-300", "--max-attempts", "3",
		"--private-key", filepath.Join(dir, "sk"), "--public-key-out", filepath.Join(dir, "pk"))
	if !errors.Is(err, pke.ErrKeySearchExhausted) {
		t.Errorf("expected ErrKeySearchExhausted, got %v", err)
	}
}

func TestAnalyzePublicKey(t *testing.T) {
	dir := t.TempDir()
	pk := filepath.Join(dir, "public.key")
	writeFile(t, pk, "2\n1 0\n0 1\n")

	stdout, _, err := runCLI(t, "analyze", "--public-key", pk)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.Contains(stdout, "Hadamard ratio:    1.000000") {
		t.Errorf("unexpected analysis output: %s", stdout)
	}
}

func TestAnalyzeChart(t *testing.T) {
	dir := t.TempDir()
	chart := filepath.Join(dir, "search.html")

	stdout, stderr, err := runCLI(t, "analyze", "--dimension", "3", "--seed", testSeedHex,
		"--max-attempts", "10000", "--chart", chart, "-v")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.Contains(stdout, "Candidates drawn:") {
		t.Errorf("analyze output missing candidate count: %s", stdout)
	}
	if !strings.Contains(stderr, chart) {
		t.Errorf("verbose output should name the chart file: %s", stderr)
	}
	html, err := os.ReadFile(chart)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if !strings.Contains(string(html), "Hadamard ratio per candidate") {
		t.Error("chart title missing")
	}
}

func TestAnalyzeRequiresInput(t *testing.T) {
	if _, _, err := runCLI(t, "analyze"); !errors.Is(err, errUsage) {
		t.Errorf("expected errUsage, got %v", err)
	}
}

func TestInvalidFlags(t *testing.T) {
	cases := [][]string{
		{"keygen", "--dimension", "abc"},
		{"keygen", "--dimension", "0"},
		{"keygen", "--dimension", "4", "--seed", "zz"},
		{"keygen", "--dimension", "4", "--seed", "00"},
		{"keygen", "--dimension", "4", "--max-attempts", "-1"},
		{"keygen", "--dimension", "4", "--threshold", "2"},
		{"keygen", "--dimension", "4", "--entry-bound", "0"},
		{"keygen"},
	}
	for _, args := range cases {
		if _, _, err := runCLI(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestTimingAndVerbose(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	writeFile(t, input, "abc")

	_, stderr, err := runCLI(t, "encrypt", "--input", input, "--output", filepath.Join(dir, "enc"),
		"--private-key", filepath.Join(dir, "sk"), "--public-key-out", filepath.Join(dir, "pk"), "-t", "-v")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	for _, want := range []string{"Key generation took:", "Encryption took:", "candidate(s)"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q: %s", want, stderr)
		}
	}
}

func TestBenchmarkCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "benchmark", "--dimension", "4", "--iterations", "2")
	if err != nil {
		t.Fatalf("benchmark failed: %v", err)
	}
	if !strings.Contains(stdout, "Benchmark complete!") {
		t.Errorf("unexpected benchmark output: %s", stdout)
	}
}

func TestGetArgAndHasFlag(t *testing.T) {
	args := []string{"--input", "a.txt", "-v", "--chart"}
	if got := getArg(args, "--input", "-i"); got != "a.txt" {
		t.Errorf("getArg = %q, want a.txt", got)
	}
	if got := getArg(args, "--chart", ""); got != "" {
		t.Errorf("trailing flag without value should be empty, got %q", got)
	}
	if !hasFlag(args, "--verbose", "-v") {
		t.Error("hasFlag missed -v")
	}
	if hasFlag(args, "--timing", "") {
		t.Error("hasFlag matched absent flag")
	}
}
