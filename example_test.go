package primego_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/primego"
)

func Example() {
	svc := primego.New()
	defer svc.Close()

	res, err := svc.Generate(context.Background(), primego.Request{
		Algorithm: "sieve",
		Limit:     1_000_000,
		Threads:   4,
	})
	if err != nil {
		panic(err)
	}

	fmt.Println(res.Total(), res.Primes[res.Total()-1])
	// Output: 78498 999983
}

func ExampleService_Generate_skipped() {
	svc := primego.New()

	res, _ := svc.Generate(context.Background(), primego.Request{Algorithm: "trial", Limit: 5, Threads: 10})
	fmt.Println(res.Skipped, res.SkipReason, len(res.Primes))
	// Output: true threads_exceed_limit 0
}

func ExampleService_Generate_unsupported() {
	svc := primego.New()

	_, err := svc.Generate(context.Background(), primego.Request{Algorithm: "bogus", Limit: 10, Threads: 1})
	fmt.Println(errors.Is(err, primego.ErrUnsupportedAlgorithm), err)
	// Output: true Unsupported algorithm: bogus
}
