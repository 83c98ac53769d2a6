package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/spf13/cobra"
)

var errAdminOnly = errors.New("this command is for staff; switch with `cafeorder role ADMIN`")

var roleCmd = &cobra.Command{
	Use:   "role [CUSTOMER|ADMIN]",
	Short: "Show or switch the active role",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeAll, err := openCafe(cmd.Context())
		if err != nil {
			return err
		}
		defer closeAll()

		if len(args) == 0 {
			fmt.Println(c.Role())
			return nil
		}
		if err := c.SetRole(cmd.Context(), models.Role(strings.ToUpper(args[0]))); err != nil {
			return err
		}
		fmt.Printf("Role set to %s\n", c.Role())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(roleCmd)
}

func requireAdmin(role models.Role) error {
	if role != models.RoleAdmin {
		return errAdminOnly
	}
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag %s: %v", name, err))
	}
	return v
}
