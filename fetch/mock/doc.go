// Package mock provides a scripted test double for fetch.Fetcher.
//
// # Usage in Tests
//
//	f := mock.NewFetcher().
//	    WithRecords("a.org.il", mock.Record("Coordinator", "https://a.org.il/1", "social")).
//	    WithError("b.com", errors.New("quota exceeded"))
//
//	results, err := pipeline.Run(ctx, criteria, "")
//	count := f.CallCount()
//
// # Default Behavior
//
// Sites without a script return no records and no error. Returned records
// always carry Source set to the requested site, as a real fetcher would.
package mock
