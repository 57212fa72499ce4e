// Package main provides the ggh-cli command line interface for GGH
// key generation, encryption, decryption and key analysis.
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	ggh "github.com/BackendStack21/ggh-go"
	"github.com/BackendStack21/ggh-go/core"
	"github.com/BackendStack21/ggh-go/pke"
	"github.com/BackendStack21/ggh-go/utils"
)

const (
	version = "1.0.0"
	appName = "ggh-cli"
)

const (
	defaultInputFile      = "input-file.txt"
	defaultEncryptedFile  = "encrypted-output.txt"
	defaultDecryptedFile  = "decrypted-output.txt"
	defaultPrivateKeyFile = "private.key"
	defaultPublicKeyFile  = "public.key"
)

// errUsage is returned for invalid command lines; main prints usage for it.
var errUsage = errors.New("invalid usage")

// CLIConfig holds CLI configuration
type CLIConfig struct {
	Params       ggh.Params
	Seed         []byte
	Dimension    int
	InputFile    string
	OutputFile   string
	PrivateKey   string
	PublicKey    string
	PublicKeyOut string
	ChartFile    string
	Iterations   int
	Verbose      bool
	Timing       bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	command, rest := args[0], args[1:]
	switch command {
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	case "version", "--version":
		fmt.Fprintf(stdout, "%s version %s\n", appName, version)
		fmt.Fprintf(stdout, "GGH library version %s\n", ggh.Version)
		return nil
	}

	config, err := parseConfig(rest)
	if err != nil {
		return err
	}

	switch command {
	case "encrypt", "enc":
		return cmdEncrypt(config, stdout, stderr)
	case "decrypt", "dec":
		return cmdDecrypt(config, stdout, stderr)
	case "keygen":
		return cmdKeygen(config, stdout, stderr)
	case "analyze":
		return cmdAnalyze(config, stdout, stderr)
	case "benchmark":
		return cmdBenchmark(config, stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `%s - GGH lattice public-key encryption

USAGE:
    %s <COMMAND> [OPTIONS]

COMMANDS:
    encrypt     Encrypt a file (generates a key pair unless --public-key is given)
    decrypt     Decrypt a ciphertext file with a private key
    keygen      Generate a key pair for a given dimension
    analyze     Inspect a public key or chart a key search
    benchmark   Run performance benchmarks
    version     Show version information
    help        Show this help message

OPTIONS:
    --input, -i <file>         Input file
    --output, -o <file>        Output file
    --private-key <file>       Private key file (default: %s)
    --public-key-out <file>    Where to write a generated public key (default: %s)
    --public-key <file>        Existing public key to encrypt under or analyze
    --dimension, -d <N>        Lattice dimension for keygen, analyze and benchmark
    --seed <hex>               Deterministic key generation from a 32-byte seed
    --max-attempts <N>         Cap the key search (default: 0, no cap)
    --threshold <r>            Hadamard ratio acceptance threshold (default: %v)
    --entry-bound <b>          Bound on unimodular factor entries (default: %d)
    --chart <file>             Render the key search ratios as an HTML chart
    --iterations, -n <N>       Benchmark iterations (default: 10)
    --verbose, -v              Verbose output
    --timing, -t               Show timing information

EXAMPLES:
    # Generate keys sized to the plaintext and encrypt it
    %s encrypt --input input-file.txt --output encrypted-output.txt

    # Decrypt
    %s decrypt --input encrypted-output.txt --private-key private.key

    # Encrypt under an existing public key
    %s encrypt --public-key public.key --input message.txt

    # Chart the Hadamard ratios of a key search
    %s analyze --dimension 16 --chart search.html
`, appName, appName, defaultPrivateKeyFile, defaultPublicKeyFile,
		core.DefaultThreshold, core.DefaultEntryBound,
		appName, appName, appName, appName)
}

// ============================================================================
// Commands
// ============================================================================

func cmdEncrypt(config CLIConfig, stdout, stderr io.Writer) error {
	inputFile := orDefault(config.InputFile, defaultInputFile)
	outputFile := orDefault(config.OutputFile, defaultEncryptedFile)

	plaintext, err := readInputFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading plaintext: %w", err)
	}
	if len(plaintext) == 0 {
		return fmt.Errorf("plaintext file %s is empty", inputFile)
	}
	if err := utils.CheckDimension(len(plaintext)); err != nil {
		return fmt.Errorf("plaintext of %d bytes: %w", len(plaintext), err)
	}
	fmt.Fprint(stdout, string(plaintext))

	var pk *ggh.PublicKey
	if config.PublicKey != "" {
		pk, err = loadPublicKey(config.PublicKey)
		if err != nil {
			return err
		}
	} else {
		kp, err := generateKeys(config, len(plaintext), stderr)
		if err != nil {
			return err
		}
		if err := saveKeyPair(config, kp); err != nil {
			return err
		}
		pk = &kp.PublicKey
	}

	start := time.Now()
	ct, err := pke.Encrypt(pk, plaintext)
	if err != nil {
		return fmt.Errorf("encrypting: %w", err)
	}
	if config.Timing {
		fmt.Fprintf(stderr, "Encryption took: %v\n", time.Since(start))
	}

	data, err := pke.SerializeCiphertext(ct)
	if err != nil {
		return err
	}
	if err := writeOutput(data, outputFile); err != nil {
		return err
	}

	for _, c := range ct.C {
		fmt.Fprintf(stdout, "%s ", c)
	}
	fmt.Fprintln(stdout)

	if config.Verbose {
		fmt.Fprintf(stderr, "Encrypted %d bytes to %s\n", len(plaintext), outputFile)
	}
	return nil
}

func cmdDecrypt(config CLIConfig, stdout, stderr io.Writer) error {
	inputFile := orDefault(config.InputFile, defaultEncryptedFile)
	outputFile := orDefault(config.OutputFile, defaultDecryptedFile)
	keyFile := orDefault(config.PrivateKey, defaultPrivateKeyFile)

	sk, err := loadPrivateKey(keyFile)
	if err != nil {
		return err
	}

	data, err := readInputFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading ciphertext: %w", err)
	}
	ct, err := pke.DeserializeCiphertext(data)
	if err != nil {
		return fmt.Errorf("parsing ciphertext: %w", err)
	}

	start := time.Now()
	plaintext, err := pke.Decrypt(sk, ct)
	if err != nil {
		return fmt.Errorf("decrypting: %w", err)
	}
	if config.Timing {
		fmt.Fprintf(stderr, "Decryption took: %v\n", time.Since(start))
	}

	if err := writeOutput(plaintext, outputFile); err != nil {
		return err
	}
	fmt.Fprintln(stdout, string(plaintext))

	if config.Verbose {
		fmt.Fprintf(stderr, "Decrypted %d bytes to %s\n", len(plaintext), outputFile)
	}
	return nil
}

func cmdKeygen(config CLIConfig, stdout, stderr io.Writer) error {
	if config.Dimension < 1 {
		return fmt.Errorf("%w: --dimension is required", errUsage)
	}
	kp, err := generateKeys(config, config.Dimension, stderr)
	if err != nil {
		return err
	}
	if err := saveKeyPair(config, kp); err != nil {
		return err
	}

	fp, err := pke.Fingerprint(&kp.PublicKey)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Generated %dx%d key pair\n", kp.PublicKey.N, kp.PublicKey.N)
	fmt.Fprintf(stdout, "Public key fingerprint: %s\n", fp)
	return nil
}

func cmdAnalyze(config CLIConfig, stdout, stderr io.Writer) error {
	if config.PublicKey != "" {
		pk, err := loadPublicKey(config.PublicKey)
		if err != nil {
			return err
		}
		a, err := pke.AnalyzePublicKey(pk)
		if err != nil {
			return err
		}
		printAnalysis(stdout, a)
		return nil
	}

	if config.Dimension < 1 {
		return fmt.Errorf("%w: analyze needs --public-key or --dimension", errUsage)
	}

	kp, trace, err := searchKeys(config, config.Dimension)
	if err != nil {
		return err
	}
	a, err := pke.AnalyzePublicKey(&kp.PublicKey)
	if err != nil {
		return err
	}
	printAnalysis(stdout, a)
	fmt.Fprintf(stdout, "Candidates drawn:  %d\n", trace.Attempts)

	if config.ChartFile != "" {
		if err := renderSearchChart(config.ChartFile, config.Dimension, config.Params.Threshold, trace); err != nil {
			return fmt.Errorf("rendering chart: %w", err)
		}
		if config.Verbose {
			fmt.Fprintf(stderr, "Wrote key search chart to %s\n", config.ChartFile)
		}
	}
	return nil
}

func cmdBenchmark(config CLIConfig, stdout io.Writer) error {
	n := config.Dimension
	if n < 1 {
		n = 16
	}
	iterations := config.Iterations
	if iterations < 1 {
		iterations = 10
	}

	fmt.Fprintf(stdout, "GGH Benchmark Results\n")
	fmt.Fprintf(stdout, "=====================\n")
	fmt.Fprintf(stdout, "Dimension: %d\n", n)
	fmt.Fprintf(stdout, "Iterations: %d\n\n", iterations)

	var keygenTotal time.Duration
	var kp *ggh.KeyPair
	for i := 0; i < iterations; i++ {
		seed, err := utils.SecureRandomBytes(utils.SeedSize)
		if err != nil {
			return err
		}
		start := time.Now()
		kp, err = pke.GenerateKeyPairFromSeed(config.Params, n, seed)
		keygenTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("keygen: %w", err)
		}
	}
	fmt.Fprintf(stdout, "  KeyGen:  %v (avg)\n", keygenTotal/time.Duration(iterations))

	plaintext, err := utils.SecureRandomBytes(n)
	if err != nil {
		return err
	}

	var encryptTotal time.Duration
	var ct *ggh.Ciphertext
	for i := 0; i < iterations; i++ {
		start := time.Now()
		ct, err = pke.Encrypt(&kp.PublicKey, plaintext)
		encryptTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
	}
	fmt.Fprintf(stdout, "  Encrypt: %v (avg)\n", encryptTotal/time.Duration(iterations))

	var decryptTotal time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		_, err := pke.Decrypt(&kp.PrivateKey, ct)
		decryptTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("decrypt: %w", err)
		}
	}
	fmt.Fprintf(stdout, "  Decrypt: %v (avg)\n", decryptTotal/time.Duration(iterations))

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Benchmark complete!")
	return nil
}

// ============================================================================
// Utility Functions
// ============================================================================

func parseConfig(args []string) (CLIConfig, error) {
	config := CLIConfig{
		Params: core.DefaultParams,
	}

	if v := getArg(args, "--max-attempts", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return config, fmt.Errorf("%w: invalid --max-attempts %q", errUsage, v)
		}
		config.Params.MaxAttempts = n
	}
	if v := getArg(args, "--threshold", ""); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return config, fmt.Errorf("%w: invalid --threshold %q", errUsage, v)
		}
		config.Params.Threshold = r
	}
	if v := getArg(args, "--entry-bound", ""); v != "" {
		b, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return config, fmt.Errorf("%w: invalid --entry-bound %q", errUsage, v)
		}
		config.Params.EntryBound = b
	}
	if err := core.ValidateParams(config.Params); err != nil {
		return config, err
	}

	if v := getArg(args, "--seed", ""); v != "" {
		seed, err := hex.DecodeString(v)
		if err != nil {
			return config, fmt.Errorf("%w: --seed must be hex", errUsage)
		}
		if err := utils.ValidateSeedEntropy(seed); err != nil {
			return config, fmt.Errorf("--seed: %w", err)
		}
		config.Seed = seed
	}

	if v := getArg(args, "--dimension", "-d"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return config, fmt.Errorf("%w: invalid --dimension %q", errUsage, v)
		}
		if err := utils.CheckDimension(n); err != nil {
			return config, fmt.Errorf("--dimension %d: %w", n, err)
		}
		config.Dimension = n
	}
	if v := getArg(args, "--iterations", "-n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return config, fmt.Errorf("%w: invalid --iterations %q", errUsage, v)
		}
		config.Iterations = n
	}

	config.InputFile = getArg(args, "--input", "-i")
	config.OutputFile = getArg(args, "--output", "-o")
	config.PrivateKey = getArg(args, "--private-key", "")
	config.PublicKey = getArg(args, "--public-key", "")
	config.PublicKeyOut = getArg(args, "--public-key-out", "")
	config.ChartFile = getArg(args, "--chart", "")
	config.Verbose = hasFlag(args, "--verbose", "-v")
	config.Timing = hasFlag(args, "--timing", "-t")

	return config, nil
}

func getArg(args []string, long, short string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == long || (short != "" && args[i] == short) {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, long, short string) bool {
	for _, arg := range args {
		if arg == long || (short != "" && arg == short) {
			return true
		}
	}
	return false
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// searchKeys runs a traced key search, seeded from --seed when given.
func searchKeys(config CLIConfig, n int) (*ggh.KeyPair, *ggh.SearchTrace, error) {
	seed := config.Seed
	if seed == nil {
		var err error
		seed, err = utils.SecureRandomBytes(utils.SeedSize)
		if err != nil {
			return nil, nil, err
		}
		defer utils.Zeroize(seed)
	}

	prng, err := utils.NewSeededPRNG(seed, pke.DomainUnimodular)
	if err != nil {
		return nil, nil, err
	}
	kp, trace, err := pke.SearchKeyPair(config.Params, n, prng)
	if err != nil {
		return nil, trace, fmt.Errorf("generating key pair: %w", err)
	}
	return kp, trace, nil
}

func generateKeys(config CLIConfig, n int, stderr io.Writer) (*ggh.KeyPair, error) {
	start := time.Now()
	kp, trace, err := searchKeys(config, n)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	if config.Timing {
		fmt.Fprintf(stderr, "Key generation took: %v\n", elapsed)
	}
	if config.Verbose {
		fmt.Fprintf(stderr, "Generated %dx%d key pair after %d candidate(s), Hadamard ratio %.6f\n",
			n, n, trace.Attempts, trace.AcceptedRatio)
	}
	return kp, nil
}

func saveKeyPair(config CLIConfig, kp *ggh.KeyPair) error {
	skData, err := pke.SerializePrivateKey(&kp.PrivateKey)
	if err != nil {
		return fmt.Errorf("serializing private key: %w", err)
	}
	pkData, err := pke.SerializePublicKey(&kp.PublicKey)
	if err != nil {
		return fmt.Errorf("serializing public key: %w", err)
	}
	if err := writeOutput(skData, orDefault(config.PrivateKey, defaultPrivateKeyFile)); err != nil {
		return err
	}
	return writeOutput(pkData, orDefault(config.PublicKeyOut, defaultPublicKeyFile))
}

func loadPrivateKey(filename string) (*ggh.PrivateKey, error) {
	data, err := readInputFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	sk, err := pke.DeserializePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("parsing private key %s: %w", filename, err)
	}
	return sk, nil
}

func loadPublicKey(filename string) (*ggh.PublicKey, error) {
	data, err := readInputFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	pk, err := pke.DeserializePublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("parsing public key %s: %w", filename, err)
	}
	return pk, nil
}

func printAnalysis(w io.Writer, a *ggh.KeyAnalysis) {
	fmt.Fprintf(w, "Dimension:         %d\n", a.Dimension)
	fmt.Fprintf(w, "Hadamard ratio:    %.6f\n", a.HadamardRatio)
	fmt.Fprintf(w, "Max entry size:    %d bits\n", a.MaxEntryBits)
	fmt.Fprintf(w, "Fingerprint:       %s\n", a.Fingerprint)
}

// readInputFile reads a whole file after checking it against MaxInputFileSize.
func readInputFile(filename string) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, err
	}
	if info.Size() > utils.MaxInputFileSize {
		return nil, fmt.Errorf("%s is %d bytes, limit is %d: %w",
			filename, info.Size(), utils.MaxInputFileSize, utils.ErrExceedsLimit)
	}
	return os.ReadFile(filename)
}

func writeOutput(data []byte, filename string) error {
	// Create file with restrictive permissions (0600 read-write for owner only).
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	// Ensure permissions are enforced even if the file already existed
	if err := os.Chmod(filename, 0600); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}
	return nil
}
