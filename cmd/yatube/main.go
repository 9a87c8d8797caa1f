package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli - общее состояние команд: настройки и логгер
type cli struct {
	configPath string
	driver     string
	dsn        string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "yatube",
		Short:         "Yatube - блог с лентами постов, группами и профилями авторов",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "Путь к YAML-файлу настроек")
	flags.StringVar(&c.driver, "driver", "", "Драйвер базы данных: sqlite3 или sqlite")
	flags.StringVar(&c.dsn, "dsn", "", "Путь к файлу базы данных SQLite")
	flags.StringVar(&c.logLevel, "log-level", "", "Уровень логирования: debug, info, warn, error")

	rootCmd.AddCommand(newServeCmd(c))
	rootCmd.AddCommand(newMigrateCmd(c))
	rootCmd.AddCommand(newGroupCmd(c))

	return rootCmd
}

// load загружает настройки, применяет флаги поверх файла и создает логгер
func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Database.Driver = c.driver
	}
	if flags.Changed("dsn") {
		cfg.Database.DSN = c.dsn
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("ошибка создания логгера: %w", err)
	}

	c.cfg = cfg
	c.logger = logger
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = level
	}

	return zc.Build()
}

// openDatabase открывает базу и применяет схему
func (c *cli) openDatabase(ctx context.Context) (*database.Database, error) {
	db, err := database.NewDatabase(c.cfg.Database.Driver, c.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func newServeCmd(c *cli) *cobra.Command {
	var addr, htmlDir, staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить веб-сервер",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("addr") {
				c.cfg.Addr = addr
			}
			if flags.Changed("html-dir") {
				c.cfg.HTMLDir = htmlDir
			}
			if flags.Changed("static-dir") {
				c.cfg.StaticDir = staticDir
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return web.RunApp(ctx, c.cfg, c.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Сетевой адрес веб-сервера, например :4000")
	cmd.Flags().StringVar(&htmlDir, "html-dir", "", "Каталог с HTML-шаблонами")
	cmd.Flags().StringVar(&staticDir, "static-dir", "", "Каталог со статическими файлами")

	return cmd
}

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Создать таблицы базы данных",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			c.logger.Info("Database migrated",
				zap.String("driver", c.cfg.Database.Driver),
				zap.String("dsn", c.cfg.Database.DSN))
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
