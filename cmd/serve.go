/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/valpere/lingo/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web form and JSON API",
	Long: `Serve the form page at / and the JSON endpoint at /api/lingo.

  POST /api/lingo  {"text": "...", "action": "Correct|Translate|Simplify",
                    "targetLanguage": "...", "targetLevel": "A1|A2|B1|B2|C1"}
  200 {"response": "..."}   500 {"error": "..."}

The API key stays on the server; set it in .env, the config file,
LINGO_API_KEY or the service's own variable (e.g. OPENAI_API_KEY).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		gw, cleanup, err := buildGateway(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		srv, err := server.New(viper.GetString("server.addr"), gw, logger)
		if err != nil {
			return err
		}

		logger.Info("starting lingo",
			zap.String("version", version),
			zap.String("service", gw.ServiceName()),
		)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":3000", "Listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
