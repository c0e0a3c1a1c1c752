package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/morphcli/morph/internal/lexer"
	"github.com/morphcli/morph/internal/token"
)

var (
	lexExpr    string
	showPos    bool
	showType   bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a mapping-language program",
	Long: `Tokenize a mapping-language program and print the resulting tokens.

This command is useful for debugging the lexer and understanding how a
.morph mapping file is tokenized.

Examples:
  # Tokenize a mapping file
  morph lex pipeline.morph

  # Tokenize an inline mapping program
  morph lex -e 'rename .old -> new'

  # Show token types and positions
  morph lex --show-type --show-pos pipeline.morph

  # Show only illegal tokens
  morph lex --only-errors pipeline.morph`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexExpr, "eval", "e", "", "tokenize an inline mapping program instead of reading from a file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal tokens")
}

func lexScript(cmd *cobra.Command, args []string) error {
	var input string
	var filename string

	switch {
	case lexExpr != "":
		input = lexExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for an inline mapping program")
	}

	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	l := lexer.New(input)
	tokenCount := 0
	errorCount := len(l.Errors())

	for {
		tok := l.NextToken()

		if onlyErrors && tok.Type != token.ILLEGAL {
			if tok.Type == token.EOF {
				break
			}
			continue
		}

		tokenCount++
		if tok.Type == token.ILLEGAL {
			errorCount++
		}

		printToken(tok)

		if tok.Type == token.EOF {
			break
		}
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", tokenCount)
		if errorCount > 0 {
			fmt.Printf("Errors: %d\n", errorCount)
		}
	}

	if onlyErrors && errorCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errorCount)
	}

	return nil
}

func printToken(tok token.Token) {
	var output string

	if showType {
		output = fmt.Sprintf("[%-10s]", tok.Type.String())
	}

	switch {
	case tok.Type == token.EOF:
		output += " EOF"
	case tok.Type == token.ILLEGAL:
		output += fmt.Sprintf(" ILLEGAL: %q", tok.Literal)
	case tok.Literal == "":
		output += fmt.Sprintf(" %s", tok.Type.String())
	default:
		output += fmt.Sprintf(" %q", tok.Literal)
	}

	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}

	fmt.Println(output)
}
