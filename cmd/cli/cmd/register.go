package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"vcrts/internal/auth"
	"vcrts/internal/store"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a user account",
	Long: `Create a new account in the shared user file.

The account id is assigned automatically unless --id is given.

Example:
  vcrtsctl register --name "Ava Torres" --role VEHICLE_OWNER --secret hunter2
  vcrtsctl register --id 1 --name "Dana Cruz" --role CLOUD_CONTROLLER --secret s3cret`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		id, _ := flags.GetInt("id")
		name, _ := flags.GetString("name")
		role, _ := flags.GetString("role")
		secret, _ := flags.GetString("secret")

		if name == "" {
			cmd.Println("Error: --name is required")
			return
		}
		if secret == "" {
			cmd.Println("Error: --secret is required")
			return
		}

		switch store.Role(role) {
		case store.RoleVehicleOwner, store.RoleJobOwner, store.RoleCloudController:
		default:
			cmd.Printf("Error: --role must be one of VEHICLE_OWNER, JOB_OWNER, CLOUD_CONTROLLER (got %q)\n", role)
			return
		}

		_, st, err := openCore()
		if err != nil {
			cmd.Printf("Failed to open data dir: %v\n", err)
			return
		}

		user := store.User{
			ID:             id,
			FullName:       name,
			Role:           store.Role(role),
			CredentialHash: auth.HashCredential(secret),
		}
		if err := st.AddUser(context.Background(), &user); err != nil {
			cmd.Printf("Failed to register user: %v\n", err)
			return
		}

		cmd.Printf("✓ Account created!\nUser ID: %d\nRole: %s\n", user.ID, user.Role)
	},
}

func init() {
	flags := registerCmd.Flags()
	flags.Int("id", 0, "Numeric user id (assigned automatically when omitted)")
	flags.StringP("name", "n", "", "Full name (required)")
	flags.StringP("role", "r", "", "Account role: VEHICLE_OWNER, JOB_OWNER or CLOUD_CONTROLLER (required)")
	flags.StringP("secret", "s", "", "Account secret (required)")

	rootCmd.AddCommand(registerCmd)
}
