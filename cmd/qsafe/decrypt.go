package main

import (
	"fmt"

	"github.com/spf13/cobra"

	quantumsafe "github.com/quantumsafe/envelope-go"
)

var (
	decryptOutput string
	decryptDir    bool
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt <path>",
	Short: "Decrypt an encrypted file or directory",
	Long: `Decrypts a container produced by "qsafe encrypt" using the private key
from the keys directory. The plaintext is written only after the
authentication tags verify; a tampered container leaves no output.

With --dir the path is treated as a directory of encrypted containers,
decrypted into a mirrored output tree with per-file isolation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := quantumsafe.NewSessionStore()
		defer store.Close()

		session, err := openSession(store)
		if err != nil {
			return err
		}

		enc := quantumsafe.NewFileEncryptor(session, quantumsafe.WithLogger(log))

		if decryptDir {
			result, err := enc.DecryptDir(args[0], decryptOutput)
			if err != nil {
				return err
			}
			return reportBatch("decrypted", result)
		}

		output, err := enc.DecryptFile(args[0], decryptOutput)
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)
	decryptCmd.Flags().StringVarP(&decryptOutput, "output", "o", "", "output path (default the original name stored in the container, or <dir>_decrypted with --dir)")
	decryptCmd.Flags().BoolVarP(&decryptDir, "dir", "d", false, "decrypt every container under the given directory")
}
