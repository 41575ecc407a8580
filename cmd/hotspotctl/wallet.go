package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/NebraLtd/maker-starter-app/internal/history"
	"github.com/NebraLtd/maker-starter-app/pkg/credstore"
	"github.com/NebraLtd/maker-starter-app/pkg/walletlink"
)

func newLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Manage the wallet link used as hotspot owner",
	}
	cmd.AddCommand(newLinkURLCmd(), newLinkCallbackCmd(), newLinkShowCmd(), newLinkClearCmd())
	return cmd
}

func newLinkURLCmd() *cobra.Command {
	var req walletlink.LinkRequest

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the URL that opens the wallet app's link flow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := walletlink.CreateLinkURL(req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.UniversalLink, "universal-link", "https://wallet.helium.com/", "Wallet app universal link")
	cmd.Flags().StringVar(&req.RequestAppID, "app-id", "com.nebra.hotspot", "Requesting app id")
	cmd.Flags().StringVar(&req.CallbackURL, "callback", walletlink.DefaultCallbackURL, "Callback URL the wallet app returns to")
	cmd.Flags().StringVar(&req.AppName, "app-name", walletlink.DefaultAppName, "App name shown by the wallet app")
	return cmd
}

func newLinkCallbackCmd() *cobra.Command {
	var flagVerify bool

	cmd := &cobra.Command{
		Use:   "callback <url>",
		Short: "Store the token from the wallet app's callback URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			started := time.Now()

			entry := history.Entry{Action: history.ActionLink, StartedAt: started}
			raw, tok, err := linkFromCallback(args[0], flagVerify || a.cfg.Provisioning.VerifyWalletLink)
			if err == nil {
				var store credstore.Store
				if store, err = a.Store(); err == nil {
					err = credstore.SaveLink(ctx, store, raw, tok.Address)
				}
			}
			entry.FinishedAt = time.Now()
			if err != nil {
				entry.Outcome, entry.Error = "error", err.Error()
				a.record(ctx, entry)
				return err
			}
			entry.Outcome, entry.DeviceAddress = "ok", tok.Address
			a.record(ctx, entry)

			fmt.Fprintf(cmd.OutOrStdout(), "Linked wallet %s (signed by %s at %s)\n",
				tok.Address, tok.SigningAppID, tok.IssuedAt().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagVerify, "verify", false, "Check the token signature before storing it")
	return cmd
}

// linkFromCallback extracts the raw token from the callback URL and
// decodes it.
func linkFromCallback(callback string, verify bool) (string, walletlink.Token, error) {
	raw, err := walletlink.TokenFromCallback(callback)
	if err != nil {
		return "", walletlink.Token{}, err
	}
	tok, err := walletlink.Decode(raw)
	if err != nil {
		return "", walletlink.Token{}, err
	}
	if verify {
		if err := walletlink.Verify(tok); err != nil {
			return "", walletlink.Token{}, err
		}
	}
	return raw, tok, nil
}

func newLinkShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored wallet link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			store, err := a.Store()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			raw, ok, err := store.WalletLinkToken(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "No wallet linked")
				return nil
			}
			tok, err := walletlink.Decode(raw)
			if err != nil {
				return errors.Wrap(err, "stored token")
			}
			addr, _, err := store.OwnerAddress(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Owner:   %s\nToken:   %s\nSigned:  %s by %s\n",
				addr, tok.Address, tok.IssuedAt().Format(time.RFC3339), tok.SigningAppID)
			if err := walletlink.Verify(tok); err != nil {
				fmt.Fprintf(out, "Signature: invalid (%v)\n", err)
			} else {
				fmt.Fprintln(out, "Signature: ok")
			}
			return nil
		},
	}
}

func newLinkClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored wallet link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			store, err := a.Store()
			if err != nil {
				return err
			}
			if err := credstore.ClearLink(cmd.Context(), store); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wallet link removed")
			return nil
		},
	}
}
