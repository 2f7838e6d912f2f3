package version

const Value = "2.0.0"

func TriageUserAgent() string {
	return "leakscout/" + Value + " (leak intelligence triage)"
}
