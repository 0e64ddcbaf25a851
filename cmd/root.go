// Package cmd provides the root command and CLI setup for allylab.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jorgejac1/allylab-sub006/internal/adapter"
	"github.com/jorgejac1/allylab-sub006/internal/domain"
	m "github.com/jorgejac1/allylab-sub006/internal/model"
	"github.com/jorgejac1/allylab-sub006/pkg"
)

var queryBuilder domain.QueryBuilder
var stateStore domain.StateStore
var matchVerifier adapter.MatchVerifier
var sessionStore adapter.SessionStore

// searchAdapter and contentAdapter are nil until an engine is built; tests
// inject fakes here before invoking a command.
var searchAdapter adapter.CodeSearchAdapter
var contentAdapter adapter.FileContentAdapter

var ownerFlag string
var repoFlag string
var branchFlag string
var tokenFlag string
var plainFlag bool
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	queryBuilder = domain.NewQueryBuilderWithLimit(viper.GetInt(maxTextConfigKey))
	stateStore = domain.NewStateStore()
	matchVerifier = adapter.NewTextVerifier()
	sessionStore = adapter.NewFileSessionStore()
}

const rootLongDescription = `Allylab locates, inside a source repository, the files that correspond to
accessibility findings scanned from a live page, so generated fixes can be
proposed as reviewable pull requests.

Sessions are JSON or YAML files produced by the scanner export, holding the
findings selected for remediation together with their candidate fixes.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "allylab",
		Short: "Map accessibility findings to source files",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&ownerFlag, ownerFlagName, "", "repository owner")
	cmd.PersistentFlags().StringVar(&repoFlag, repoFlagName, "", "repository name")
	cmd.PersistentFlags().StringVar(&branchFlag, branchFlagName, "", "branch to read file content from")
	cmd.PersistentFlags().StringVar(&tokenFlag, tokenFlagName, viper.GetString(tokenConfigKey), "code host API token")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(tokenFlagName), tokenConfigKey)

	cmd.PersistentFlags().BoolVar(&plainFlag, plainFlagName, false, "disable interactive display")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// repositoryContext builds the target repository from flags, falling back to
// the session's own repository block for anything not overridden.
func repositoryContext(session *adapter.Session) m.RepositoryContext {
	repo := session.Repository

	if ownerFlag != "" {
		repo.Owner = ownerFlag
	}

	if repoFlag != "" {
		repo.Repo = repoFlag
	}

	if branchFlag != "" {
		repo.Branch = branchFlag
	}

	return repo
}

// newEngine wires the resolver and orchestrator, constructing a GitHub
// adapter unless tests injected capabilities already.
func newEngine() (domain.Resolver, domain.Orchestrator) {
	search := searchAdapter
	content := contentAdapter

	if search == nil || content == nil {
		github := adapter.NewGitHubAdapter(
			viper.GetString(tokenConfigKey),
			adapter.WithBaseURL(viper.GetString(apiURLConfigKey)),
		)

		if search == nil {
			search = github
		}

		if content == nil {
			content = github
		}
	}

	resolver := domain.NewResolver(search, content, matchVerifier, queryBuilder, stateStore)
	interval := time.Duration(viper.GetInt(intervalConfigKey)) * time.Millisecond
	orchestrator := domain.NewOrchestratorWithPacer(resolver, stateStore, pkg.NewPacer(interval))

	return resolver, orchestrator
}

// sessionItems returns pointers into the session's item slice so resolved
// paths land back in the session.
func sessionItems(session *adapter.Session) []*m.FindingWithFix {
	items := make([]*m.FindingWithFix, 0, len(session.Items))
	for i := range session.Items {
		items = append(items, &session.Items[i])
	}

	return items
}
