package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/stagegate/stagegate/internal/cli"
	"github.com/stagegate/stagegate/internal/cli/formatter"
	"github.com/stagegate/stagegate/internal/config"
	"github.com/stagegate/stagegate/internal/db"
	"github.com/stagegate/stagegate/internal/repository"
	"github.com/stagegate/stagegate/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.NoColor {
		formatter.DisableColor()
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	memberRepo := repository.NewSQLiteMemberRepo(database)
	profileRepo := repository.NewSQLiteProfileRepo(database)
	phaseRepo := repository.NewSQLitePhaseRepo(database)
	scenarioRepo := repository.NewSQLiteScenarioRepo(database)
	activityRepo := repository.NewSQLiteActivityRepo(database)
	lessonRepo := repository.NewSQLiteLessonRepo(database)
	changeRepo := repository.NewSQLiteChangeRequestRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var logW io.Writer
	if cfg.LogUseCases {
		logW = os.Stderr
	}
	observer := service.NewLogUseCaseObserver(logW)

	// Wire services
	permSvc := service.NewPermissionService(memberRepo, profileRepo, uow, observer)
	userSvc := service.NewUserService(userRepo)

	app := &cli.App{
		Users:      userSvc,
		Projects:   service.NewProjectService(projectRepo, phaseRepo, scenarioRepo, memberRepo, permSvc, uow, observer),
		Members:    service.NewMembershipService(memberRepo, profileRepo, userRepo, permSvc, uow, observer),
		Permission: permSvc,
		Workflow:   service.NewWorkflowService(activityRepo, scenarioRepo, phaseRepo, memberRepo, userRepo, permSvc, uow, observer),
		Records:    service.NewRecordService(lessonRepo, changeRepo, permSvc),
		Boards:     service.NewBoardService(projectRepo, phaseRepo, scenarioRepo, activityRepo, memberRepo, profileRepo, userRepo, permSvc),
	}

	// Resolve the acting user from config. Commands that need no identity
	// (user add, user list) still work when unresolved.
	if cfg.CurrentUser != "" {
		if u, err := userSvc.GetByUsername(context.Background(), cfg.CurrentUser); err == nil {
			app.CallerID = u.ID
		}
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
