package port

// ArticleSource lists and reads raw article files.
type ArticleSource interface {
	List() ([]string, error)

	ReadFile(path string) ([]byte, error)
}
