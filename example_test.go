package spanfmt_test

import (
	"os"
	"time"

	spanfmt "github.com/spanfmt/spanfmt-go"
	"github.com/spanfmt/spanfmt-go/sfbase"
	"github.com/spanfmt/spanfmt-go/sfbytes"
	"github.com/spanfmt/spanfmt-go/sftest"
)

func ExampleNew() {
	layer := spanfmt.New(sfbytes.WriteToIOWriter(os.Stdout),
		spanfmt.WithClock(func() time.Time {
			return time.Date(2020, 3, 4, 5, 6, 7, 0, time.UTC)
		}),
	)
	host := sftest.New(layer)

	span := host.NewSpan("request", sfbase.String("method", "GET"))
	span.Info("server", "handled", sfbase.Int("status", 200))

	// Output:
	// {"fields":{"message":"handled","status":200},"level":"INFO","span":{"method":"GET","name":"request"},"spans":[{"method":"GET","name":"request"}],"target":"server","timestamp":"2020-03-04T05:06:07Z"}
}
