package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/bunchhieng/shelf/internal/app"
	shelfcli "github.com/bunchhieng/shelf/internal/cli"
	"github.com/bunchhieng/shelf/internal/config"
	"github.com/bunchhieng/shelf/internal/platform"
	"github.com/bunchhieng/shelf/internal/storage"
	"github.com/bunchhieng/shelf/internal/store"
	"github.com/bunchhieng/shelf/internal/tui"
)

var version = "dev"

func main() {
	r := &runner{}
	if err := r.app().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runner opens the library on first use so help and version never touch
// the database.
type runner struct {
	cfg      *config.Config
	logger   *zap.Logger
	storage  storage.Storage
	library  *app.Library
	commands *shelfcli.Commands
}

func (r *runner) app() *cli.App {
	return &cli.App{
		Name:    "shelf",
		Usage:   "save, tag and browse links from across the web",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to config file"},
			&cli.StringFlag{Name: "db-path", Usage: "path to database file (default: platform config directory)"},
		},
		After: func(*cli.Context) error {
			return r.close()
		},
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "save a link",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}},
					&cli.StringFlag{Name: "thumbnail"},
					&cli.StringSliceFlag{Name: "tag", Usage: "tag to attach, repeatable"},
					&cli.StringFlag{Name: "tab", Usage: "custom tab (id or name) to file the link under"},
				},
				Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
					url, err := requireArg(c, "url")
					if err != nil {
						return err
					}
					return cmds.Add(c.Context, app.AddRequest{
						URL:          url,
						Title:        c.String("title"),
						Category:     c.String("category"),
						ThumbnailURL: c.String("thumbnail"),
						Tags:         c.StringSlice("tag"),
						Tab:          c.String("tab"),
					})
				}),
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "list links",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "scope", Usage: "all or platform:<name>"},
					&cli.StringFlag{Name: "tab", Usage: "restrict to a custom tab (id or name)"},
					&cli.StringFlag{Name: "tag"},
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}},
					&cli.StringFlag{Name: "order", Usage: "newest or oldest"},
					&cli.IntFlag{Name: "limit", Usage: "links per page, 0 for all (default: page_size from config)"},
					&cli.IntFlag{Name: "page", Value: 1},
				},
				Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
					limit := r.cfg.PageSize
					if c.IsSet("limit") {
						limit = c.Int("limit")
					}
					return cmds.List(shelfcli.ListOptions{
						Scope:  c.String("scope"),
						Tab:    c.String("tab"),
						Tag:    c.String("tag"),
						Search: c.String("search"),
						Order:  c.String("order"),
						Limit:  limit,
						Page:   c.Int("page"),
					})
				}),
			},
			{
				Name:      "open",
				Usage:     "open a link in the browser",
				ArgsUsage: "<id>",
				Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
					id, err := requireArg(c, "id")
					if err != nil {
						return err
					}
					return cmds.Open(c.Context, id)
				}),
			},
			{
				Name:      "title",
				Usage:     "change a link's title",
				ArgsUsage: "<id> <title>",
				Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
					if c.NArg() < 2 {
						return fmt.Errorf("usage: shelf title <id> <title>")
					}
					return cmds.Title(c.Context, c.Args().Get(0), c.Args().Get(1))
				}),
			},
			{
				Name:      "category",
				Usage:     "change a link's category",
				ArgsUsage: "<id> <category>",
				Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
					if c.NArg() < 2 {
						return fmt.Errorf("usage: shelf category <id> <category>")
					}
					return cmds.Category(c.Context, c.Args().Get(0), c.Args().Get(1))
				}),
			},
			{
				Name:      "rm",
				Usage:     "remove links",
				ArgsUsage: "<id>...",
				Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
					if c.NArg() == 0 {
						return fmt.Errorf("at least one link ID required")
					}
					return cmds.Remove(c.Context, c.Args().Slice()...)
				}),
			},
			{
				Name:  "tag",
				Usage: "manage a link's tags",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						ArgsUsage: "<id> <tag>...",
						Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
							if c.NArg() < 2 {
								return fmt.Errorf("usage: shelf tag add <id> <tag>...")
							}
							return cmds.TagAdd(c.Context, c.Args().First(), c.Args().Tail()...)
						}),
					},
					{
						Name:      "rm",
						ArgsUsage: "<id> <tag>...",
						Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
							if c.NArg() < 2 {
								return fmt.Errorf("usage: shelf tag rm <id> <tag>...")
							}
							return cmds.TagRemove(c.Context, c.Args().First(), c.Args().Tail()...)
						}),
					},
				},
			},
			{
				Name:  "tags",
				Usage: "list tags with link counts",
				Action: r.withCommands(func(_ *cli.Context, cmds *shelfcli.Commands) error {
					return cmds.Tags()
				}),
			},
			{
				Name:  "tab",
				Usage: "manage custom tabs",
				Subcommands: []*cli.Command{
					{
						Name:      "create",
						ArgsUsage: "<name>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "icon"},
							&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
						},
						Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
							name, err := requireArg(c, "tab name")
							if err != nil {
								return err
							}
							return cmds.TabCreate(c.Context, store.TabRequest{
								Name:        name,
								Icon:        c.String("icon"),
								Description: c.String("description"),
							})
						}),
					},
					{
						Name:      "rm",
						ArgsUsage: "<tab>",
						Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
							ref, err := requireArg(c, "tab")
							if err != nil {
								return err
							}
							return cmds.TabDelete(c.Context, ref)
						}),
					},
					{
						Name:      "add",
						ArgsUsage: "<tab> <id>...",
						Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
							if c.NArg() < 2 {
								return fmt.Errorf("usage: shelf tab add <tab> <id>...")
							}
							return cmds.TabAdd(c.Context, c.Args().First(), c.Args().Tail()...)
						}),
					},
					{
						Name:      "remove",
						ArgsUsage: "<tab> <id>...",
						Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
							if c.NArg() < 2 {
								return fmt.Errorf("usage: shelf tab remove <tab> <id>...")
							}
							return cmds.TabRemove(c.Context, c.Args().First(), c.Args().Tail()...)
						}),
					},
					{
						Name: "list",
						Action: r.withCommands(func(_ *cli.Context, cmds *shelfcli.Commands) error {
							return cmds.TabList()
						}),
					},
				},
			},
			{
				Name:  "export",
				Usage: "write the collection as JSON to stdout",
				Action: r.withCommands(func(_ *cli.Context, cmds *shelfcli.Commands) error {
					return cmds.Export(os.Stdout)
				}),
			},
			{
				Name:      "import",
				Usage:     "merge a JSON export into the collection",
				ArgsUsage: "<file>",
				Action: r.withCommands(func(c *cli.Context, cmds *shelfcli.Commands) error {
					file, err := requireArg(c, "file")
					if err != nil {
						return err
					}
					return cmds.Import(c.Context, file)
				}),
			},
			{
				Name:  "browse",
				Usage: "browse links interactively",
				Action: r.withCommands(func(_ *cli.Context, cmds *shelfcli.Commands) error {
					return tui.Run(r.library, cmds.OpenURL)
				}),
			},
			{
				Name:  "version",
				Usage: "show version",
				Action: func(*cli.Context) error {
					fmt.Printf("shelf version %s\n", version)
					return nil
				},
			},
		},
	}
}

func requireArg(c *cli.Context, name string) (string, error) {
	if c.NArg() == 0 {
		return "", fmt.Errorf("%s required", name)
	}
	return c.Args().First(), nil
}

func (r *runner) withCommands(fn func(*cli.Context, *shelfcli.Commands) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if err := r.open(c.Context, c.String("config"), c.String("db-path")); err != nil {
			return err
		}
		return fn(c, r.commands)
	}
}

func (r *runner) open(ctx context.Context, configPath, dbPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	r.cfg = cfg

	logger, err := app.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	r.logger = logger

	st, err := app.NewStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	r.storage = st

	lib, err := app.Open(ctx, st, app.Options{
		Classifier:  platform.New(cfg.Platforms...),
		Logger:      logger,
		Order:       cfg.DefaultOrder,
		PageSize:    cfg.PageSize,
		DefaultIcon: cfg.DefaultIcon,
	})
	if err != nil {
		return err
	}
	r.library = lib
	r.commands = shelfcli.NewCommands(lib, os.Stdout)
	return nil
}

func (r *runner) close() error {
	if r.logger != nil {
		_ = r.logger.Sync()
	}
	if r.storage != nil {
		return r.storage.Close()
	}
	return nil
}
