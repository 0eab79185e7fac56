// Package health reports whether memoized functions are within their
// resource budgets.
//
// A Checker reports one component's Status. FromUsage turns measured
// resources and their soft limits into a Result. An Aggregator runs several
// checkers under one deadline and folds their results into an overall
// status: Unhealthy beats Degraded, which beats Healthy.
//
//	getUser, m, err := memo.Wrap1(opts, loadUser)
//	...
//	agg := health.NewAggregator()
//	agg.Register("users", m.HealthChecker(memo.HealthConfig{MaxLocks: 10000}))
//	results := agg.CheckAll(ctx)
//	overall := health.OverallStatus(results)
package health
