package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yigit/studentperf/internal/app/classifier"
	"github.com/yigit/studentperf/internal/app/migrations"
	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/app/repositories"
	"github.com/yigit/studentperf/internal/app/services"
	"github.com/yigit/studentperf/internal/bootstrap"
	"github.com/yigit/studentperf/internal/config"
	"github.com/yigit/studentperf/internal/db"
	"github.com/yigit/studentperf/internal/pkg/auth"
	"github.com/yigit/studentperf/internal/pkg/logger"
	"github.com/yigit/studentperf/internal/pkg/validation"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errEmptyPassword = errors.New("password must not be empty")
)

// commandLine carries what the subcommands work on. Fields left nil are built from
// the config file on first use.
type commandLine struct {
	configPath string
	dotEnvPath string
	out        io.Writer

	cfg     *config.Config
	db      *db.DB
	ownsDB  bool
	users   *services.UserService
	records *services.RecordService
}

func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administrative tasks for the student performance dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(cli.out)
	root.PersistentFlags().StringVar(&cli.configPath, "config", bootstrap.DefaultConfigPath, "path to the YAML config file")
	root.PersistentFlags().StringVar(&cli.dotEnvPath, "env", bootstrap.DefaultDotEnvPath, "path to an optional .env file")

	root.AddCommand(cli.migrateCmd(), cli.addUserCmd(), cli.predictCmd())
	return root
}

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users and academic_data tables if they are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := cli.database()
			if err != nil {
				return err
			}
			if err := migrations.NewMigrator(database).InitSchema(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("schema is up to date")
			return nil
		},
	}
}

func (cli *commandLine) addUserCmd() *cobra.Command {
	var username, role string

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create an account. The password is prompted for.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Print("Enter password:")
			pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
			cmd.Println()
			if err != nil {
				return err
			}
			if len(pwd) == 0 {
				return errEmptyPassword
			}

			users, err := cli.userService(cmd.Context())
			if err != nil {
				return err
			}
			user, err := users.RegisterAccount(cmd.Context(), models.NewUser{
				Username: username,
				Password: string(pwd),
				Role:     models.Role(role),
			})
			if err != nil {
				return err
			}
			cmd.Printf("created %s account %q\n", user.Role, user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name of the new account")
	cmd.Flags().StringVar(&role, "role", string(models.RoleStudent), "account role: student or teacher")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (cli *commandLine) predictCmd() *cobra.Command {
	var score, hours, attendance float64

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Print the pass/fail prediction for the given figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := cli.recordService()
			if err != nil {
				return err
			}
			prediction, err := records.Predict(models.NewPerformance(score, hours, attendance))
			if err != nil {
				return err
			}
			cmd.Println(prediction)
			return nil
		},
	}
	cmd.Flags().Float64Var(&score, "score", 0, "semester score (0-100)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "average daily study hours (0-12)")
	cmd.Flags().Float64Var(&attendance, "attendance", 0, "attendance percentage (0-100)")
	for _, name := range []string{"score", "hours", "attendance"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (cli *commandLine) config() (*config.Config, error) {
	if cli.cfg != nil {
		return cli.cfg, nil
	}
	cfg, err := config.LoadConfig(cli.configPath, cli.dotEnvPath)
	if err != nil {
		return nil, err
	}
	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))
	cli.cfg = cfg
	return cfg, nil
}

func (cli *commandLine) database() (*db.DB, error) {
	if cli.db != nil {
		return cli.db, nil
	}
	cfg, err := cli.config()
	if err != nil {
		return nil, err
	}
	database, err := db.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	cli.db, cli.ownsDB = database, true
	return database, nil
}

func (cli *commandLine) userService(ctx context.Context) (*services.UserService, error) {
	if cli.users != nil {
		return cli.users, nil
	}
	cfg, err := cli.config()
	if err != nil {
		return nil, err
	}
	database, err := cli.database()
	if err != nil {
		return nil, err
	}
	// adduser may run against a fresh store
	if err := migrations.NewMigrator(database).InitSchema(ctx); err != nil {
		return nil, err
	}
	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordMode)
	if err != nil {
		return nil, err
	}
	repos := repositories.NewRepositories(database)
	cli.users = services.NewUserService(repos.UserRepository, hasher, validation.New(), logger.Component("admin"))
	return cli.users, nil
}

func (cli *commandLine) recordService() (*services.RecordService, error) {
	if cli.records != nil {
		return cli.records, nil
	}
	cfg, err := cli.config()
	if err != nil {
		return nil, err
	}
	forest, err := classifier.Load(cfg.Prediction.ModelPath)
	if err != nil {
		return nil, err
	}
	rule, err := classifier.NewRule(cfg.Prediction.FastPathRule, cfg.Prediction.MinScore, cfg.Prediction.MinAttendance)
	if err != nil {
		return nil, err
	}
	cli.records = services.NewRecordService(nil, nil, forest, rule, validation.New(), logger.Component("admin"))
	return cli.records, nil
}

func (cli *commandLine) close() {
	if cli.ownsDB && cli.db != nil {
		_ = cli.db.Close()
		cli.db, cli.ownsDB = nil, false
	}
}
