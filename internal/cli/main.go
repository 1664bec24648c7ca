package cli

import (
	"context"
	"fmt"
	"strings"
)

// Run is the interactive loop. It reads one command per line and dispatches
// it; errors are printed, never fatal.
func (a *App) Run() {
	ctx := context.Background()

	fmt.Fprintln(a.out, "Password vault CLI (type 'help' for commands)")
	for {
		fmt.Fprintf(a.out, "vault %s> ", a.lockIndicator(ctx))

		line, err := a.reader.ReadString('\n')
		if err != nil {
			fmt.Fprintln(a.out, "Bye!")
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.printHelp()
		case "setpin":
			a.SetPin(ctx)
		case "unlock":
			a.Unlock(ctx)
		case "lock":
			a.Lock(ctx)
		case "status":
			a.Status(ctx)
		case "add":
			a.AddPassword(ctx)
		case "list":
			domain := ""
			if len(args) > 0 {
				domain = args[0]
			}
			a.ListPasswords(ctx, domain)
		case "delete":
			a.DeletePassword(ctx)
		case "generate":
			a.GeneratePassword(ctx)
		case "totp":
			a.Totp(ctx, args)
		case "pending":
			a.Pending(ctx)
		case "whitelist":
			a.Whitelist(ctx, args)
		case "export":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: export <file>")
				continue
			}
			a.Export(ctx, args[0])
		case "import":
			if len(args) == 0 {
				fmt.Fprintln(a.out, "Usage: import <file>")
				continue
			}
			a.Import(ctx, args[0])
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, `Commands:
  setpin              set or change the vault PIN
  unlock              verify the PIN and open a session
  lock                drop the session
  status              show session and PIN state
  add                 save a password
  list [domain]       list passwords (all domains if omitted)
  delete              delete a password
  generate            generate a password
  totp list|add|code  manage authenticator entries
  pending             show captured logins awaiting the PIN
  whitelist [list|add <entry>]
  export <file>       write an encrypted export
  import <file>       import an encrypted export
  exit`)
}
