package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/application/seed"
)

// SeedOptions opciones del comando seed.
type SeedOptions struct {
	Latin1     bool
	Reactivate bool
}

// NewSeedCommand crea el comando seed.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed <archivo.yaml>",
		Short: "Carga condiciones de IVA, unidades, rubros y productos desde YAML",
		Long: `Da de alta el contenido del archivo con las mismas validaciones de la API.
Las claves que ya existen activas se reutilizan. Las dadas de baja se informan
y solo se reactivan con --reactivar.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args[0], rootOpts, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Latin1, "latin1", false, "el archivo está en ISO-8859-1")
	cmd.Flags().BoolVar(&opts.Reactivate, "reactivar", false, "reactivar las entidades dadas de baja")

	return cmd
}

func runSeed(cmd *cobra.Command, path string, rootOpts *RootOptions, opts *SeedOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer f.Close()

	file, err := seed.Parse(f, opts.Latin1)
	if err != nil {
		return err
	}

	cfg, err := rootOpts.load()
	if err != nil {
		return err
	}
	log := rootOpts.logger(cfg, cmd.ErrOrStderr())
	ctx := cmd.Context()

	store, err := rootOpts.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := lifecycle.NewEngine(store, log.Zerolog(), nil)
	report, err := seed.NewImporter(engine, log.Zerolog(), opts.Reactivate).Import(ctx, file)
	// el reporte parcial se imprime también ante error
	printReport(cmd, report)
	return err
}

func printReport(cmd *cobra.Command, report seed.Report) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLECCIÓN\tCREADOS\tEXISTENTES\tREACTIVADOS\tINACTIVOS")
	for _, coll := range report.Collections() {
		c := report[coll]
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", coll, c.Created, c.Existing, c.Reactivated, c.Inactive)
	}
	_ = w.Flush()
}
