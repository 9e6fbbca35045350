package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cqlview/cqlview/internal/config"
	"github.com/cqlview/cqlview/internal/cql"
	"github.com/cqlview/cqlview/internal/db"
	"github.com/cqlview/cqlview/internal/history"
	"github.com/cqlview/cqlview/internal/sessionctx"
)

func main() {
	configPath := flag.String("config", "", "path to cqlview.yaml")
	userID := flag.String("user", "", "history user identifier (UUID); a fresh one is generated when empty")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	session, err := db.Connect(&cfg.Cassandra)
	if err != nil {
		zap.S().Errorw("connect failed", "error", err.Error())
		os.Exit(1)
	}
	defer session.Close()

	exec := db.NewExecutor(session)
	dispatcher := db.NewDispatcher(exec, &cfg.Cassandra)

	storage, err := history.NewFileStorage(cfg.History.Dir)
	if err != nil {
		zap.S().Errorw("history storage unavailable", "error", err.Error())
		os.Exit(1)
	}
	async := history.NewAsyncFileStore(storage)
	defer async.Close()

	user := resolveUser(*userID)
	hist := history.NewService(user, storage, async, cfg.History.Limit)

	sc := sessionctx.New(cql.Keyspace(cfg.Cassandra.Keyspace))
	repl(dispatcher, sc, hist)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func resolveUser(text string) history.UserIdentifier {
	if text != "" {
		if user, err := history.ParseUserIdentifier(text); err == nil {
			return user
		}
		zap.S().Warnw("invalid user identifier, generating a new one", "user", text)
	}
	return history.NewUserIdentifier()
}

func repl(dispatcher *db.Dispatcher, sc *sessionctx.Context, hist *history.Service) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		prompt(sc)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "exit"), strings.EqualFold(line, "quit"):
			return
		case strings.EqualFold(line, "keyspaces"):
			for _, ks := range dispatcher.FindAllKeySpaces() {
				fmt.Println(ks)
			}
			continue
		case strings.EqualFold(line, "tables"):
			printTables(dispatcher, sc)
			continue
		case strings.EqualFold(line, "history"):
			for _, e := range hist.Read().Entries {
				fmt.Printf("%s  %s\n", e.ExecutedAt.Format("2006-01-02 15:04:05"), e.Query)
			}
			continue
		}

		query := cql.NewQuery(line)
		result, err := dispatcher.Execute(sc, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}
		hist.Record(line)
		printResult(os.Stdout, result)
	}
}

func prompt(sc *sessionctx.Context) {
	if ks := sc.ActiveKeyspace(); ks != "" {
		fmt.Printf("cqlview:%s> ", ks)
		return
	}
	fmt.Print("cqlview> ")
}

func printTables(dispatcher *db.Dispatcher, sc *sessionctx.Context) {
	var keyspace *cql.Keyspace
	if ks := sc.ActiveKeyspace(); ks != "" {
		keyspace = &ks
	}
	for _, table := range dispatcher.FindTableNames(keyspace) {
		fmt.Println(table)
	}
}
