package main

import (
	"fmt"
	"os"
	"strings"

	"reactbot/internal/storage"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "rosterctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := &cli.App{
		Name:  "rosterctl",
		Usage: "edit the command whitelist in a reactbot snapshot file (run while the bot is stopped)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "storage",
				Usage:   "path to the snapshot file",
				Value:   "botdata.json",
				EnvVars: []string{"STORAGE_PATH"},
			},
			&cli.IntFlag{
				Name:    "backups",
				Usage:   "number of snapshot backups to keep",
				Value:   3,
				EnvVars: []string{"STORAGE_BACKUPS"},
			},
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "show",
			Usage:  "print allowed users and roles",
			Action: runShow,
		},
		{
			Name:      "allow-user",
			Usage:     "allow users to run commands",
			ArgsUsage: "<userId>...",
			Action:    rosterAction((*storage.Storage).SetUserAllowed, true, "user"),
		},
		{
			Name:      "remove-user",
			Usage:     "remove users from the whitelist",
			ArgsUsage: "<userId>...",
			Action:    rosterAction((*storage.Storage).SetUserAllowed, false, "user"),
		},
		{
			Name:      "allow-role",
			Usage:     "allow members of roles to run commands",
			ArgsUsage: "<roleId>...",
			Action:    rosterAction((*storage.Storage).SetRoleAllowed, true, "role"),
		},
		{
			Name:      "remove-role",
			Usage:     "remove roles from the whitelist",
			ArgsUsage: "<roleId>...",
			Action:    rosterAction((*storage.Storage).SetRoleAllowed, false, "role"),
		},
	}
	return app
}

func openStorage(cctx *cli.Context) (*storage.Storage, error) {
	log := zerolog.New(zerolog.ConsoleWriter{Out: cctx.App.ErrWriter}).Level(zerolog.WarnLevel)
	return storage.New(cctx.String("storage"), storage.Options{
		BackupCount: cctx.Int("backups"),
		Logger:      log,
	})
}

func runShow(cctx *cli.Context) error {
	store, err := openStorage(cctx)
	if err != nil {
		return err
	}
	defer store.Close()

	roster := store.Roster()
	fmt.Fprintf(cctx.App.Writer, "users: %s\n", listOrNone(roster.Users))
	fmt.Fprintf(cctx.App.Writer, "roles: %s\n", listOrNone(roster.Roles))
	return nil
}

type setFunc func(s *storage.Storage, id string, allowed bool) (bool, error)

func rosterAction(set setFunc, allowed bool, kind string) cli.ActionFunc {
	return func(cctx *cli.Context) error {
		if cctx.NArg() == 0 {
			return fmt.Errorf("need at least one %s id", kind)
		}

		store, err := openStorage(cctx)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, id := range cctx.Args().Slice() {
			changed, err := set(store, id, allowed)
			if err != nil {
				return err
			}
			verb := "allowed"
			if !allowed {
				verb = "removed"
			}
			if !changed {
				verb = "unchanged"
			}
			fmt.Fprintf(cctx.App.Writer, "%s %s %s\n", kind, id, verb)
		}
		return nil
	}
}

func listOrNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}
