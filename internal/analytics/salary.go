package analytics

import "github.com/project-tktt/go-tracker/internal/domain"

// salaryBuckets in order; bounds are in thousands with inclusive upper edges.
var salaryBuckets = []string{"0-20", "21-30", "31-40", "41-50", "51-60", "61-70", "71-80", "81-100", "100+"}

// shortPeriodMax is the highest salary_period code treated as hourly-ish
// (1=hourly, 2=daily, 3=weekly).
const shortPeriodMax = 3

// SalaryDistribution holds two histogram cuts over the same buckets: every
// job with a salary, and the subset paid on short periods.
type SalaryDistribution struct {
	All         map[string]int `json:"all"`
	Hourly      map[string]int `json:"hourly"`
	TotalAll    int            `json:"totalAll"`
	TotalHourly int            `json:"totalHourly"`
}

// DistributeSalaries buckets jobs by salary. Jobs without a salary value are
// ignored entirely and count toward neither total.
func (p *Processor) DistributeSalaries(jobs []domain.TrackedApplication) SalaryDistribution {
	dist := SalaryDistribution{
		All:    emptyBuckets(salaryBuckets),
		Hourly: emptyBuckets(salaryBuckets),
	}
	for _, job := range jobs {
		if job.Salary == nil {
			continue
		}
		bucket := salaryBucket(*job.Salary)
		dist.All[bucket]++
		dist.TotalAll++
		if job.SalaryPeriod > 0 && job.SalaryPeriod <= shortPeriodMax {
			dist.Hourly[bucket]++
			dist.TotalHourly++
		}
	}
	return dist
}

func salaryBucket(salary float64) string {
	switch {
	case salary <= 20:
		return "0-20"
	case salary <= 30:
		return "21-30"
	case salary <= 40:
		return "31-40"
	case salary <= 50:
		return "41-50"
	case salary <= 60:
		return "51-60"
	case salary <= 70:
		return "61-70"
	case salary <= 80:
		return "71-80"
	case salary <= 100:
		return "81-100"
	default:
		return "100+"
	}
}

func emptyBuckets(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for _, n := range names {
		m[n] = 0
	}
	return m
}
