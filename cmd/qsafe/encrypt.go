package main

import (
	"fmt"

	"github.com/spf13/cobra"

	quantumsafe "github.com/quantumsafe/envelope-go"
)

var (
	encryptOutput string
	encryptDir    bool
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt <path>",
	Short: "Encrypt a file or directory",
	Long: `Encrypts a file with the public key from the keys directory. Each file
gets its own fresh symmetric key; the output is a JSON container carrying
the wrapped key material alongside the ciphertext.

With --dir the path is treated as a directory: every regular file under it
is encrypted into a mirrored output tree, and a failure on one file does
not stop the others.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := quantumsafe.NewSessionStore()
		defer store.Close()

		session, err := openSession(store)
		if err != nil {
			return err
		}

		enc := quantumsafe.NewFileEncryptor(session, quantumsafe.WithLogger(log))

		if encryptDir {
			result, err := enc.EncryptDir(args[0], encryptOutput)
			if err != nil {
				return err
			}
			return reportBatch("encrypted", result)
		}

		output, err := enc.EncryptFile(args[0], encryptOutput)
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
	encryptCmd.Flags().StringVarP(&encryptOutput, "output", "o", "", "output path (default input + \""+quantumsafe.EncryptedExt+"\", or <dir>_encrypted with --dir)")
	encryptCmd.Flags().BoolVarP(&encryptDir, "dir", "d", false, "encrypt every file under the given directory")
}

// reportBatch prints per-file outcomes and returns an error when any
// file in the batch failed, so the process exit code reflects it.
func reportBatch(verb string, result *quantumsafe.BatchResult) error {
	for _, fr := range result.Files {
		if fr.Err != nil {
			fmt.Printf("FAILED  %s: %v\n", fr.Input, fr.Err)
			continue
		}
		fmt.Printf("ok      %s -> %s\n", fr.Input, fr.Output)
	}
	fmt.Printf("%d %s, %d failed\n", result.Succeeded, verb, result.Failed)
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", result.Failed, result.Total)
	}
	return nil
}
