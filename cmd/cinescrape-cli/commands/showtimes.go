package commands

import (
	"fmt"
	"time"

	"cinescrape/lib/scrapers/mycinema"
	"cinescrape/lib/serviceutil"

	"github.com/spf13/cobra"
)

var showtimesBaseUrl *string
var showtimesMaxDays *int

func init() {
	showtimesBaseUrl = showtimesCmd.Flags().String("base-url", "", "The site to walk the page against.")
	showtimesMaxDays = showtimesCmd.Flags().Int("max-days", 5, "How many dates of the selector to visit.")
	showtimesCmd.MarkFlagRequired("base-url")
	rootCmd.AddCommand(showtimesCmd)
}

var showtimesCmd = &cobra.Command{
	Use:   "showtimes --base-url <site> <href>",
	Short: "Walks a single showtime page across its dates and prints the payload.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := mycinema.NewClient(cmd.Context(), mycinema.ClientOptions{
			BaseUrl: *showtimesBaseUrl,
			MaxDays: *showtimesMaxDays,
			Delay:   time.Second * 2,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize cinema client", err)
		}

		cinemas, err := client.Showtimes(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("showtime walk failed", err)
		}
		if cinemas == nil {
			fmt.Println("no showtimes on this page")
			return
		}

		payload, err := mycinema.EncodeShowtimes(cinemas)
		if err != nil {
			serviceutil.Fatal("failed to encode showtimes", err)
		}
		fmt.Println(payload)
	},
}
