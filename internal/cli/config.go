package cli

// GlobalOptions are shared flags that apply across commands.
type GlobalOptions struct {
	Format  string
	Quiet   bool
	Verbose bool
}
