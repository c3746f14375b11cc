package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	"github.com/spf13/cobra"
)

var (
	tokenEmployeeID string
	tokenRoles      []string
)

// tokenCmd mints a bearer token for local development. Real tokens come from
// the auth service.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a development bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.IsDevelopment() {
			return errors.New("token minting is only available when APP_ENV is development")
		}
		tokens := auth.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, time.Duration(cfg.JWT.TTL)*time.Minute)
		token, err := tokens.Issue(tokenEmployeeID, tokenRoles)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmployeeID, "employee-id", "", "employee the token is issued to")
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "role", nil, "role to grant (repeatable)")
	_ = tokenCmd.MarkFlagRequired("employee-id")
}
