package storedb

import (
	"fmt"

	"github.com/storewatch/storewatch/schema"
)

// PrintStoreStatus prints status store summary information.
func PrintStoreStatus(status schema.StoreStatusSummary) {
	fmt.Printf("Database Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Stores: %d\n", status.StoreCount)
	fmt.Printf("Observations: %d\n", status.ObservationCount)
	if status.ObservationCount > 0 {
		fmt.Printf("Latest Observation: %s\n", status.LatestTimestamp.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Observation: %s\n", status.OldestTimestamp.Format("2006-01-02 15:04:05"))
	}
	fmt.Println("Table Sizes:")
	for table, size := range status.TableSizes {
		fmt.Printf("  %s: %d rows\n", table, size)
	}
}
