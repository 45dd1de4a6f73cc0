package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xgit-dev/xgit/pkg/repo"
)

func newVerifyCmd() *cobra.Command {
	var signersPath string

	cmd := &cobra.Command{
		Use:   "verify [rev]",
		Short: "Verify the SSH signature on a commit or tag",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xc, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			r, err := xc.Repository()
			if err != nil {
				return err
			}

			target := "HEAD"
			if len(args) == 1 {
				target = args[0]
			}
			obj, err := r.GetObject(cmd.Context(), target, "")
			if err != nil {
				return err
			}

			path := signersPath
			if path == "" {
				path = cfg.AllowedSigners
			}
			signers, err := loadSigners(path)
			if err != nil {
				return err
			}

			var result *repo.VerifyResult
			switch o := obj.(type) {
			case *repo.Commit:
				result, err = o.VerifySignature(cmd.Context(), signers)
			case *repo.TagObject:
				result, err = o.VerifySignature(cmd.Context(), signers)
			default:
				return fmt.Errorf("verify: %s is a %s, only commits and tags carry signatures", target, obj.Type())
			}
			if err != nil {
				return fmt.Errorf("verify %s: %w", target, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Good signature on %s %s\n", obj.Type(), obj.Hash())
			fmt.Fprintf(out, "Key: %s %s\n", result.KeyType, result.Fingerprint)
			if result.Principal != "" {
				fmt.Fprintf(out, "Signer: %s\n", result.Principal)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&signersPath, "allowed-signers", "", "allowed-signers file (default from config)")
	return cmd
}

func loadSigners(path string) ([]repo.AllowedSigner, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("allowed signers: %w", err)
	}
	return repo.ParseAllowedSigners(data)
}
