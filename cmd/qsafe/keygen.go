package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	quantumsafe "github.com/quantumsafe/envelope-go"
)

var keygenAlgorithm string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a key pair and save it to the keys directory",
	Long: `Generates fresh key material for the chosen algorithm mode and writes it
to the keys directory as public_key.json (shareable) and private_key.json
(owner-only permissions, optionally passphrase-protected).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if keygenAlgorithm == "" {
			keygenAlgorithm = os.Getenv("QSAFE_ALGORITHM")
		}
		if keygenAlgorithm == "" {
			keygenAlgorithm = quantumsafe.ModeHybrid.String()
		}

		mode, err := quantumsafe.ParseMode(keygenAlgorithm)
		if err != nil {
			return err
		}

		store := quantumsafe.NewSessionStore()
		defer store.Close()

		start := time.Now()
		session, err := store.Create(mode)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		record, err := store.Export(session.ID())
		if err != nil {
			return err
		}

		opts, err := keyStoreOptions(true)
		if err != nil {
			return err
		}
		if err := quantumsafe.NewKeyStore(keysDir, opts...).Save(record); err != nil {
			return err
		}

		log.WithField("mode", mode).WithField("took", elapsed.Round(time.Microsecond)).Info("generated key pair")
		fmt.Printf("Keys saved to %s\n", keysDir)
		fmt.Printf("  public:  %s/%s\n", keysDir, quantumsafe.PublicKeyFile)
		fmt.Printf("  private: %s/%s (keep this secret)\n", keysDir, quantumsafe.PrivateKeyFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringVarP(&keygenAlgorithm, "algorithm", "a", "", "algorithm mode: kem, classical or hybrid (default \"hybrid\", or QSAFE_ALGORITHM)")
}
