// shipquote prints carrier quotes for a parcel, cheapest first. Operators
// use it to answer customer questions without opening the storefront.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/example/ec-storefront/internal/domain/shipping"
	"github.com/example/ec-storefront/internal/money"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now()); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, now time.Time) error {
	var (
		from   string
		to     string
		weight int64
		value  int64
		asJSON bool
	)

	flagSet := pflag.NewFlagSet("shipquote", pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.StringVar(&from, "from", "Quận 1", "origin district")
	flagSet.StringVar(&to, "to", "", "destination district")
	flagSet.Int64VarP(&weight, "weight", "w", 500, "parcel weight in grams")
	flagSet.Int64Var(&value, "value", 0, "declared value in VND")
	flagSet.BoolVar(&asJSON, "json", false, "print quotes as JSON")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if weight <= 0 {
		return fmt.Errorf("--weight must be positive, got %d", weight)
	}
	if value < 0 {
		return fmt.Errorf("--value must not be negative, got %d", value)
	}
	if to == "" {
		return errors.New("--to is required")
	}

	rates := shipping.CalculateShippingCost(from, to, weight, value)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rates)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CARRIER\tCOST\tDAYS\tDELIVERY BY")
	for _, r := range rates {
		eta := shipping.CalculateEstimatedDelivery(r.Provider.ID, now)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Provider.Name, r.FormattedCost, r.EstimatedDays, eta.Format("Mon 02/01"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if fee := shipping.InsuranceFee(value); fee > 0 {
		fmt.Fprintf(out, "\nincludes insurance %s on a declared value of %s\n",
			money.FormatVND(fee), money.FormatVND(value))
	}
	return nil
}
