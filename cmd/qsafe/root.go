package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	quantumsafe "github.com/quantumsafe/envelope-go"
)

var (
	keysDir          string
	passphrasePrompt bool
	verbose          bool

	log = logrus.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qsafe",
	Short: "Quantum-safe hybrid envelope encryption for files",
	Long: `qsafe encrypts files with a fresh AES-256-GCM key per file and protects
that key with ML-KEM-768, RSA-2048-OAEP, or both combined (hybrid mode).

Key material lives in a keys directory as a public/private file pair;
generate one with "qsafe keygen" before encrypting.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env file can supply QSAFE_* defaults; absence is fine.
		_ = godotenv.Load()

		if keysDir == "" {
			keysDir = os.Getenv("QSAFE_KEYS_DIR")
		}
		if keysDir == "" {
			keysDir = "keys"
		}

		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&keysDir, "keys-dir", "k", "", "directory holding the key file pair (default \"keys\", or QSAFE_KEYS_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&passphrasePrompt, "passphrase", "p", false, "prompt for a passphrase protecting the private key file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// keyStoreOptions builds the keystore options, prompting for a
// passphrase when requested.
func keyStoreOptions(confirm bool) ([]quantumsafe.KeyStoreOption, error) {
	if !passphrasePrompt {
		if env := os.Getenv("QSAFE_PASSPHRASE"); env != "" {
			return []quantumsafe.KeyStoreOption{quantumsafe.WithPassphrase([]byte(env))}, nil
		}
		return nil, nil
	}

	passphrase, err := readPassphrase("Passphrase: ")
	if err != nil {
		return nil, err
	}
	if confirm {
		again, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return nil, err
		}
		if string(passphrase) != string(again) {
			return nil, fmt.Errorf("passphrases do not match")
		}
	}

	return []quantumsafe.KeyStoreOption{quantumsafe.WithPassphrase(passphrase)}, nil
}

func readPassphrase(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	return passphrase, nil
}

// openSession loads the key files and registers them as a session.
func openSession(store *quantumsafe.SessionStore) (*quantumsafe.Session, error) {
	opts, err := keyStoreOptions(false)
	if err != nil {
		return nil, err
	}

	record, err := quantumsafe.NewKeyStore(keysDir, opts...).Load()
	if err != nil {
		return nil, err
	}

	return store.Import(record)
}
