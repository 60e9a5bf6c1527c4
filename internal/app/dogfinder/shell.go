package dogfinder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	dogsapp "github.com/Apurer/go-dog-finder/internal/domains/dogs/application"
	dogsdomain "github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
	apperrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

// ErrQuit is returned by Execute when the user asked to leave.
var ErrQuit = errors.New("quit requested")

// Shell turns typed commands into calls on the App and prints plain text.
type Shell struct {
	app *App
	out io.Writer
}

func NewShell(app *App, out io.Writer) *Shell {
	return &Shell{app: app, out: out}
}

type command struct {
	usage   string
	help    string
	needs   bool
	handler func(s *Shell, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"login":   {usage: `login "<name>" <email>`, help: "sign in and load the first page", handler: (*Shell).login},
		"logout":  {usage: "logout", help: "sign out and forget favorites", needs: true, handler: (*Shell).logout},
		"breeds":  {usage: "breeds [term]", help: "list breeds, optionally filtered by a substring", needs: true, handler: (*Shell).breeds},
		"breed":   {usage: `breed ["<name>"]`, help: "toggle a breed filter; no name clears all", needs: true, handler: (*Shell).breed},
		"age":     {usage: "age <min|-> <max|->", help: "set the age range; - leaves a bound open", needs: true, handler: (*Shell).age},
		"sort":    {usage: "sort <breed|name|age> [asc|desc]", help: "change the ordering", needs: true, handler: (*Shell).sort},
		"size":    {usage: "size <n>", help: "dogs per page", needs: true, handler: (*Shell).size},
		"search":  {usage: "search", help: "reload page 1", needs: true, handler: (*Shell).search},
		"next":    {usage: "next", help: "next page", needs: true, handler: (*Shell).next},
		"prev":    {usage: "prev", help: "previous page", needs: true, handler: (*Shell).prev},
		"fav":     {usage: "fav <n|id>", help: "toggle a favorite by result number or id", needs: true, handler: (*Shell).fav},
		"favs":    {usage: "favs", help: "list favorites", needs: true, handler: (*Shell).favs},
		"match":   {usage: "match", help: "ask for the best match among favorites", needs: true, handler: (*Shell).match},
		"dismiss": {usage: "dismiss", help: "hide the match", needs: true, handler: (*Shell).dismiss},
		"status":  {usage: "status", help: "show session, filters and page", handler: (*Shell).status},
		"help":    {usage: "help", help: "this text", handler: (*Shell).help},
	}
}

// Run reads commands from rl until quit, EOF or ctx ends.
func (s *Shell) Run(ctx context.Context, rl *readline.Instance) error {
	fmt.Fprintln(s.out, `dog finder: type "help" for commands`)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(s.out, `use "quit" to exit`)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			s.Report(err)
		}
	}
}

// Execute runs one command line. Command errors are returned, not printed.
func (s *Shell) Execute(ctx context.Context, line string) error {
	args := splitArgs(line)
	if len(args) == 0 {
		return nil
	}
	name := strings.ToLower(args[0])
	if name == "quit" || name == "exit" {
		return ErrQuit
	}
	cmd, ok := commands[name]
	if !ok {
		return apperrors.Validation("shell", fmt.Sprintf("unknown command %q, try help", name))
	}
	if cmd.needs && !s.app.Session.Authenticated() {
		return apperrors.Validation("shell."+name, "please log in first")
	}
	return cmd.handler(s, ctx, args[1:])
}

// Report prints err the way the user should see it. Answers overtaken by a newer request print nothing.
func (s *Shell) Report(err error) {
	if err == nil || errors.Is(err, dogsapp.ErrSuperseded) {
		return
	}
	fmt.Fprintf(s.out, "error: %s\n", apperrors.UserMessage(err))
}

func (s *Shell) prompt() string {
	if user := s.app.Session.Current(); user.Authenticated {
		return user.Name + "> "
	}
	return "dogfinder> "
}

func usage(name string) error {
	return apperrors.Validation("shell."+name, "usage: "+commands[name].usage)
}

func (s *Shell) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("login")
	}
	user, err := s.app.Login(ctx, args[0], args[1])
	if !user.Authenticated {
		return err
	}
	fmt.Fprintf(s.out, "welcome, %s\n", user.Name)
	if state := s.app.Search.Snapshot(); s.app.Session.Authenticated() && state.LastError == nil {
		s.printResults()
	}
	return err
}

func (s *Shell) logout(ctx context.Context, _ []string) error {
	err := s.app.Session.Logout(ctx)
	fmt.Fprintln(s.out, "logged out")
	return err
}

func (s *Shell) breeds(ctx context.Context, args []string) error {
	if _, err := s.app.Breeds.Load(ctx); err != nil {
		return err
	}
	term := strings.Join(args, " ")
	selected := map[string]bool{}
	for _, b := range s.app.Search.Snapshot().Filters.Breeds {
		selected[b] = true
	}
	matches := s.app.Breeds.Filter(term)
	for _, b := range matches {
		mark := " "
		if selected[b] {
			mark = "x"
		}
		fmt.Fprintf(s.out, "[%s] %s\n", mark, b)
	}
	fmt.Fprintf(s.out, "%d breeds\n", len(matches))
	return nil
}

func (s *Shell) breed(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return s.apply(ctx, dogsdomain.WithBreeds())
	}
	name := strings.Join(args, " ")
	breeds, err := s.app.Breeds.Load(ctx)
	if err != nil {
		return err
	}
	if !containsFold(breeds, &name) {
		return apperrors.Validation("shell.breed", fmt.Sprintf("unknown breed %q", name))
	}
	return s.apply(ctx, dogsdomain.ToggleBreed(name))
}

func (s *Shell) age(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("age")
	}
	var bounds [2]*int
	for i, raw := range args {
		if raw == "-" {
			continue
		}
		v, err := dogsdomain.ParseAgeBound(raw)
		if err != nil {
			return apperrors.Validation("shell.age", err.Error())
		}
		bounds[i] = v
	}
	return s.apply(ctx, dogsdomain.WithAgeMin(bounds[0]), dogsdomain.WithAgeMax(bounds[1]))
}

func (s *Shell) sort(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return usage("sort")
	}
	raw := args[0]
	if !strings.Contains(raw, ":") {
		dir := string(dogsdomain.Ascending)
		if len(args) == 2 {
			dir = args[1]
		}
		raw += ":" + dir
	}
	parsed, err := dogsdomain.ParseSort(raw)
	if err != nil {
		return apperrors.Validation("shell.sort", err.Error())
	}
	return s.run(s.app.Search.SetSort(ctx, parsed.Field, parsed.Direction))
}

func (s *Shell) size(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("size")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return usage("size")
	}
	return s.apply(ctx, dogsdomain.WithPageSize(n))
}

func (s *Shell) search(ctx context.Context, _ []string) error {
	return s.run(s.app.Search.Refresh(ctx))
}

func (s *Shell) next(ctx context.Context, _ []string) error {
	if !s.app.Search.Snapshot().Cursor.HasNext() {
		fmt.Fprintln(s.out, "already on the last page")
		return nil
	}
	return s.run(s.app.Search.NextPage(ctx))
}

func (s *Shell) prev(ctx context.Context, _ []string) error {
	if !s.app.Search.Snapshot().Cursor.HasPrev() {
		fmt.Fprintln(s.out, "already on the first page")
		return nil
	}
	return s.run(s.app.Search.PrevPage(ctx))
}

func (s *Shell) fav(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("fav")
	}
	dog, ok := s.lookup(args[0])
	if !ok {
		return apperrors.Validation("shell.fav", fmt.Sprintf("no dog %q on this page or in favorites", args[0]))
	}
	if s.app.Favorites.Toggle(dog) {
		fmt.Fprintf(s.out, "added %s to favorites (%d)\n", dog.Name, s.app.Favorites.Len())
	} else {
		fmt.Fprintf(s.out, "removed %s from favorites (%d)\n", dog.Name, s.app.Favorites.Len())
	}
	return nil
}

func (s *Shell) favs(_ context.Context, _ []string) error {
	favorites := s.app.Favorites.List()
	if len(favorites) == 0 {
		fmt.Fprintln(s.out, "no favorites yet")
		return nil
	}
	for i, d := range favorites {
		fmt.Fprintf(s.out, "%2d. %s\n", i+1, formatDog(d))
	}
	return nil
}

func (s *Shell) match(ctx context.Context, _ []string) error {
	result, err := s.app.Matcher.RequestMatch(ctx, s.app.Favorites.List())
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "your match: %s\n", formatDog(result.Dog))
	if result.Dog.ImageURL != "" {
		fmt.Fprintf(s.out, "photo: %s\n", result.Dog.ImageURL)
	}
	return nil
}

func (s *Shell) dismiss(_ context.Context, _ []string) error {
	s.app.Matcher.Dismiss()
	fmt.Fprintln(s.out, "match dismissed")
	return nil
}

func (s *Shell) status(_ context.Context, _ []string) error {
	user := s.app.Session.Current()
	if !user.Authenticated {
		fmt.Fprintln(s.out, "not logged in")
	} else {
		fmt.Fprintf(s.out, "logged in as %s <%s>\n", user.Name, user.Email)
	}
	state := s.app.Search.Snapshot()
	fmt.Fprintf(s.out, "filters: %s\n", describeFilters(state.Filters))
	fmt.Fprintf(s.out, "page %d, %d results, %d favorites\n", state.Page, state.Total, s.app.Favorites.Len())
	if m, ok := s.app.Matcher.Current(); ok && m.Visible {
		fmt.Fprintf(s.out, "match: %s\n", formatDog(m.Dog))
	}
	if state.LastError != nil {
		fmt.Fprintf(s.out, "last error: %s\n", apperrors.UserMessage(state.LastError))
	}
	return nil
}

func (s *Shell) help(_ context.Context, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(s.out, "  %-34s %s\n", commands[name].usage, commands[name].help)
	}
	fmt.Fprintf(s.out, "  %-34s %s\n", "quit", "leave without logging out")
	return nil
}

func (s *Shell) apply(ctx context.Context, updates ...dogsdomain.FilterOption) error {
	return s.run(s.app.Search.SetFilters(ctx, updates...))
}

// run prints the page after a successful search call.
func (s *Shell) run(err error) error {
	if err != nil {
		return err
	}
	s.printResults()
	return nil
}

func (s *Shell) printResults() {
	state := s.app.Search.Snapshot()
	fmt.Fprintf(s.out, "page %d | %d dogs | %s\n", state.Page, state.Total, describeFilters(state.Filters))
	if len(state.Results) == 0 {
		fmt.Fprintln(s.out, "no dogs match these filters")
		return
	}
	for i, d := range state.Results {
		mark := " "
		if s.app.Favorites.IsFavorite(d.ID) {
			mark = "*"
		}
		fmt.Fprintf(s.out, "%2d. [%s] %s\n", i+1, mark, formatDog(d))
	}
	var nav []string
	if state.Cursor.HasPrev() {
		nav = append(nav, "prev")
	}
	if state.Cursor.HasNext() {
		nav = append(nav, "next")
	}
	if len(nav) > 0 {
		fmt.Fprintf(s.out, "more: %s\n", strings.Join(nav, ", "))
	}
}

// lookup resolves a 1-based result number or a dog id from the page or the favorites.
func (s *Shell) lookup(ref string) (dogsdomain.Dog, bool) {
	results := s.app.Search.Snapshot().Results
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(results) {
		return results[n-1], true
	}
	for _, d := range results {
		if d.ID == ref {
			return d, true
		}
	}
	for _, d := range s.app.Favorites.List() {
		if d.ID == ref {
			return d, true
		}
	}
	return dogsdomain.Dog{}, false
}

func formatDog(d dogsdomain.Dog) string {
	out := fmt.Sprintf("%s, %s, %d y", d.Name, d.Breed, d.Age)
	if d.ZipCode != "" {
		out += ", zip " + d.ZipCode
	}
	return out + " (" + d.ID + ")"
}

func describeFilters(f dogsdomain.FilterState) string {
	parts := []string{"sort " + f.Sort.String(), fmt.Sprintf("size %d", f.PageSize)}
	if len(f.Breeds) > 0 {
		parts = append(parts, "breeds "+strings.Join(f.Breeds, ", "))
	}
	if f.AgeMin != nil || f.AgeMax != nil {
		parts = append(parts, "age "+bound(f.AgeMin)+"-"+bound(f.AgeMax))
	}
	return strings.Join(parts, " | ")
}

func bound(v *int) string {
	if v == nil {
		return "any"
	}
	return strconv.Itoa(*v)
}

// containsFold reports whether name is in breeds ignoring case, and rewrites name to the catalog spelling.
func containsFold(breeds []string, name *string) bool {
	for _, b := range breeds {
		if strings.EqualFold(b, *name) {
			*name = b
			return true
		}
	}
	return false
}

// splitArgs splits on spaces, keeping double-quoted runs together.
func splitArgs(line string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	flush := func() {
		if current.Len() > 0 {
			args = append(args, current.String())
			current.Reset()
		}
	}
	for _, r := range strings.TrimSpace(line) {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case (r == ' ' || r == '\t') && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return args
}
