package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cours-de-latin/textlab"
	"github.com/cours-de-latin/textlab/internal/store"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage trained models in the model store",
	Long: `List, import, export and delete trained models kept in the SQLite
model store (store.path in the configuration).

Subcommands:
  list     - List stored models
  import   - Put a saved model file in the store
  export   - Write a stored model to a file
  delete   - Remove a stored model`,
	RunE: runModelsList,
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored models",
	RunE:  runModelsList,
}

var modelsImportCmd = &cobra.Command{
	Use:   "import <file> [name]",
	Short: "Put a saved model file in the store",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runModelsImport,
}

var modelsExportCmd = &cobra.Command{
	Use:   "export <name> [file]",
	Short: "Write a stored model to a file",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runModelsExport,
}

var modelsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a stored model",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsDelete,
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsImportCmd)
	modelsCmd.AddCommand(modelsExportCmd)
	modelsCmd.AddCommand(modelsDeleteCmd)
}

// modelSink is where a training command writes its models.
type modelSink struct {
	save  bool
	store bool
}

func (s *modelSink) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&s.save, "save", true, "Write trained models to models_dir")
	cmd.Flags().BoolVar(&s.store, "store", false, "Also put trained models in the model store")
}

func (s *modelSink) write(ctx context.Context, name, kind string, b []byte) error {
	if s.save {
		path, err := modelPath(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, b, 0644); err != nil {
			return fmt.Errorf("failed to write model: %w", err)
		}
		logger.Info("Saved model", zap.String("kind", kind), zap.String("path", path))
	}
	if s.store {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.Put(ctx, name, kind, b)
		if err != nil {
			return err
		}
		logger.Info("Stored model", zap.String("kind", kind), zap.String("name", name), zap.String("id", id))
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model store: %w", err)
	}
	return st, nil
}

func runModelsList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	models, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(models) == 0 {
		fmt.Println("No stored models.")
		return nil
	}
	heading("Stored models")
	fmt.Println(strings.Repeat("─", 72))
	for _, m := range models {
		fmt.Printf("%-28s %-10s %10d  %s\n", m.Name, m.Kind, m.Size, m.Created.Format("2006-01-02 15:04:05"))
	}
	fmt.Println(strings.Repeat("─", 72))
	note("Total: %d models in %s", len(models), st.Path())
	return nil
}

func runModelsImport(cmd *cobra.Command, args []string) error {
	b, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read model: %w", err)
	}
	kind, err := textlab.ModelKind(b)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	if len(args) > 1 {
		name = args[1]
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	id, err := st.Put(cmd.Context(), name, kind, b)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %s %s (%s)\n", kind, name, id)
	return nil
}

func runModelsExport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	m, err := st.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	path := args[0] + ".gob"
	if len(args) > 1 {
		path = args[1]
	}
	if err := os.WriteFile(path, m.Blob, 0644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	fmt.Printf("Exported %s %s to %s\n", m.Kind, m.Name, path)
	return nil
}

func runModelsDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("Deleted", args[0])
	return nil
}
