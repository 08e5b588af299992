package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// loginCmd signs in from the terminal without the full TUI: useful over
// SSH and in scripts that pre-authenticate before `compass assess`.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with your phone number",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.store.Close()

		if d.sess.LoggedIn() {
			if u := d.sess.User(); u != nil && u.FullName != "" {
				fmt.Printf("Already signed in as %s. Run `compass logout` to switch accounts.\n", u.FullName)
			} else {
				fmt.Println("Already signed in. Run `compass logout` to switch accounts.")
			}
			return nil
		}

		ctx := cmd.Context()
		reader := bufio.NewReader(os.Stdin)

		phone, err := prompt(reader, "Phone number: ")
		if err != nil {
			return err
		}
		if err := d.client.SendOTP(ctx, phone); err != nil {
			return err
		}
		fmt.Println("Code sent.")

		code, err := prompt(reader, "One-time code: ")
		if err != nil {
			return err
		}
		v, err := d.client.VerifyOTP(ctx, phone, code)
		if err != nil {
			return err
		}
		if err := d.sess.Login(ctx, v.User, v.Token); err != nil {
			return err
		}

		name := v.User.FullName
		if name == "" {
			name = phone
		}
		fmt.Printf("Signed in as %s.\n", name)
		return nil
	},
}

func prompt(r *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
