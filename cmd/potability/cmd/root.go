/*
 *     Copyright 2023 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/waterlab/potability/cmd/dependency"
	"github.com/waterlab/potability/internal/wqerrors"
	logger "github.com/waterlab/potability/internal/wqlog"
	"github.com/waterlab/potability/pkg/types"
	"github.com/waterlab/potability/potability/config"
	"github.com/waterlab/potability/potability/metrics"
	"github.com/waterlab/potability/potability/storage"
	"github.com/waterlab/potability/potability/training"
	"github.com/waterlab/potability/version"
)

var (
	potabilityViper = viper.New()
)

// potabilityDescription is used to describe potability command in details.
var potabilityDescription = `Potability loads a water quality dataset, trains a gradient boosted tree classifier
on a random split of it, evaluates the classifier on the held out samples and predicts
the potability of a single sample.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:               types.PotabilityName,
	Short:             "train and evaluate a water potability classifier",
	Long:              potabilityDescription,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load config file into the given viper instance.
		if err := dependency.ReadConfigFile(potabilityViper, cmd); err != nil {
			return errors.Wrap(err, "read config file")
		}

		// Get config from viper.
		cfg := config.New()
		if err := dependency.GetConfigFromViper(potabilityViper, cfg); err != nil {
			return errors.Wrap(err, "get config from viper")
		}

		// Seed stays unset unless the flag, env or config file gives it, the
		// flag wins.
		if cmd.Flags().Changed("seed") {
			seed, err := cmd.Flags().GetInt64("seed")
			if err != nil {
				return err
			}
			cfg.Split.Seed = &seed
		}

		// Convert config.
		if err := cfg.Convert(); err != nil {
			return err
		}

		// Validate config.
		if err := cfg.Validate(); err != nil {
			return err
		}

		// Initialize logger.
		rotateConfig := logger.LogRotateConfig{
			MaxSize:    cfg.LogMaxSize,
			MaxAge:     cfg.LogMaxAge,
			MaxBackups: cfg.LogMaxBackups,
		}
		if err := logger.InitPotability(cfg.Verbose, cfg.Console, cfg.LogDir, rotateConfig); err != nil {
			return fmt.Errorf("init potability logger: %w", err)
		}
		logger.Debugf("get potability config: %+v", cfg)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		dependency.SetupQuitSignalHandler(cancel)

		return runPotability(ctx, cfg, cmd.OutOrStdout(), cmd.InOrStdin(), cmd.ErrOrStderr())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.With("code", wqerrors.CodeOf(err).String()).Errorf("potability failed: %v", err)
		os.Exit(1)
	}
}

func init() {
	setupFlags(rootCmd)

	// Initialize command and config.
	dependency.InitCommandAndConfig(rootCmd, potabilityViper, types.PotabilityName, types.PotabilityEnvPrefix)

	// Env names take the prefix set above.
	exitOnError(bindRootEnvs(potabilityViper), "bind root command envs")
}

// setupFlags setups flags for command line.
func setupFlags(cmd *cobra.Command) {
	flagSet := cmd.Flags()
	defaultConfig := config.New()

	flagSet.String("data", defaultConfig.Data.Path, "the path of dataset file")
	flagSet.String("separator", defaultConfig.Data.Separator, "the field separator of dataset, a single character")
	flagSet.Bool("has-header", defaultConfig.Data.HasHeader, "the first row of dataset is a header")
	flagSet.String("missing-value", defaultConfig.Data.MissingValue, "the policy of missing measurements, drop or mean")
	flagSet.Float64("test-fraction", defaultConfig.Split.TestFraction, "the fraction of samples held out for evaluation")
	flagSet.Int64("seed", 0, "the seed of random split, a random split is made when it is not given")
	flagSet.Int("leaves", defaultConfig.Trainer.NumberOfLeaves, "the maximum number of leaves per tree")
	flagSet.Int("min-leaf", defaultConfig.Trainer.MinimumExampleCountPerLeaf, "the minimum number of examples in a leaf")
	flagSet.Float64("learning-rate", defaultConfig.Trainer.LearningRate, "the shrinkage applied to every tree")
	flagSet.Int("trees", defaultConfig.Trainer.NumberOfTrees, "the number of boosting rounds")
	flagSet.Bool("progress", defaultConfig.Trainer.ShowProgress, "render a progress bar on stderr while boosting")
	flagSet.Float64("threshold", defaultConfig.Evaluation.AccuracyThreshold, "the accuracy the model is acceptable at")
	flagSet.StringToString("sample", nil, "the sample to predict, e.g. pH=7.0,Hardness=200, defaults to a typical sample")
	flagSet.String("report", defaultConfig.Output.Report, "the path of yaml report, empty disables it")
	flagSet.String("metrics-file", defaultConfig.Output.MetricsFile, "the path of prometheus textfile, empty disables it")
	flagSet.Bool("wait", defaultConfig.Output.Wait, "wait for enter before exit")
	flagSet.Bool("console", defaultConfig.Console, "whether logger output records to the stdout")
	flagSet.Bool("verbose", defaultConfig.Verbose, "whether logger use debug level")
	flagSet.String("log-dir", defaultConfig.LogDir, "the directory of log files, used when console is disabled")

	exitOnError(bindRootFlags(potabilityViper, cmd), "bind root command flags")
}

// bindRootEnvs binds keys that have no flag binding to environment variables.
func bindRootEnvs(v *viper.Viper) error {
	for _, key := range []string{"split.seed"} {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}

	return nil
}

// bindRootFlags binds flags on cmd to the given viper instance.
func bindRootFlags(v *viper.Viper, cmd *cobra.Command) error {
	flags := []struct {
		key  string
		flag string
	}{
		{
			key:  "data.path",
			flag: "data",
		}, {
			key:  "data.separator",
			flag: "separator",
		}, {
			key:  "data.hasHeader",
			flag: "has-header",
		}, {
			key:  "data.missingValue",
			flag: "missing-value",
		}, {
			key:  "split.testFraction",
			flag: "test-fraction",
		}, {
			key:  "trainer.numberOfLeaves",
			flag: "leaves",
		}, {
			key:  "trainer.minimumExampleCountPerLeaf",
			flag: "min-leaf",
		}, {
			key:  "trainer.learningRate",
			flag: "learning-rate",
		}, {
			key:  "trainer.numberOfTrees",
			flag: "trees",
		}, {
			key:  "trainer.showProgress",
			flag: "progress",
		}, {
			key:  "evaluation.accuracyThreshold",
			flag: "threshold",
		}, {
			key:  "predict.sample",
			flag: "sample",
		}, {
			key:  "output.report",
			flag: "report",
		}, {
			key:  "output.metricsFile",
			flag: "metrics-file",
		}, {
			key:  "output.wait",
			flag: "wait",
		}, {
			key:  "console",
			flag: "console",
		}, {
			key:  "verbose",
			flag: "verbose",
		}, {
			key:  "logDir",
			flag: "log-dir",
		},
	}

	for _, f := range flags {
		if err := v.BindPFlag(f.key, cmd.Flags().Lookup(f.flag)); err != nil {
			return err
		}
	}

	return nil
}

func runPotability(ctx context.Context, cfg *config.Config, stdout io.Writer, stdin io.Reader, stderr io.Writer) error {
	logger.Infof("version:\n%s", version.Version())

	if cfg.Output.MetricsFile != "" {
		defer func() {
			if err := metrics.WriteTextfile(cfg.Output.MetricsFile); err != nil {
				logger.Errorf("write metrics file %s failed: %v", cfg.Output.MetricsFile, err)
			}
		}()
	}

	s := storage.New(
		storage.WithSeparator(cfg.Data.SeparatorRune()),
		storage.WithHeader(cfg.Data.HasHeader),
	)

	w, err := training.NewWorkflow(cfg, s, training.WithProgressWriter(stderr))
	if err != nil {
		return err
	}

	result, err := w.Run(ctx)
	if err != nil {
		return err
	}

	if err := training.Print(stdout, result); err != nil {
		return err
	}

	if cfg.Output.Report != "" {
		if err := training.WriteReport(cfg.Output.Report, result); err != nil {
			return errors.Wrapf(err, "write report %s", cfg.Output.Report)
		}
		logger.Infof("report written to %s", cfg.Output.Report)
	}

	if cfg.Output.Wait {
		fmt.Fprintln(stdout, "Press Enter to exit...")
		if _, err := bufio.NewReader(stdin).ReadString('\n'); err != nil && err != io.EOF {
			return err
		}
	}

	return nil
}

func exitOnError(err error, msg string) {
	if err != nil {
		logger.Fatalf("%s: %v", msg, err)
	}
}
