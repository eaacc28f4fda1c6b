package lexer_test

import (
	"testing"

	"github.com/mjfoley/vam16/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, line string) []*lexer.Token {
	t.Helper()
	lx := lexer.New(line, 1)
	var toks []*lexer.Token
	for {
		tok, err := lx.GetToken()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Type == lexer.TokenEOF {
			break
		}
	}
	return toks
}

func TestLexer_Mnemonic(t *testing.T) {
	toks := collect(t, "mov r0, 5")
	require.Len(t, toks, 5)
	assert.Equal(t, lexer.TokenInstruction, toks[0].Type)
	assert.Equal(t, "MOV", toks[0].Text)
	assert.Equal(t, lexer.TokenRegister, toks[1].Type)
	assert.EqualValues(t, 0, toks[1].Value)
	assert.Equal(t, lexer.TokenComma, toks[2].Type)
	assert.Equal(t, lexer.TokenInt, toks[3].Type)
	assert.EqualValues(t, 5, toks[3].Value)
	assert.Equal(t, lexer.TokenEOF, toks[4].Type)
}

func TestLexer_RegisterRangeIsNarrow(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind lexer.TokenType
	}{
		{"r0 is a register", "r0", lexer.TokenRegister},
		{"r9 is a register", "r9", lexer.TokenRegister},
		{"r10 is a label, not a register", "r10", lexer.TokenLabel},
		{"r15 is a label, not a register", "r15", lexer.TokenLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := collect(t, tt.text)
			require.Len(t, toks, 2)
			assert.Equal(t, tt.kind, toks[0].Type)
		})
	}
}

func TestLexer_NegativeInt(t *testing.T) {
	toks := collect(t, "mov r0, -42")
	require.Len(t, toks, 5)
	assert.Equal(t, lexer.TokenInt, toks[3].Type)
	assert.EqualValues(t, -42, toks[3].Value)
}

func TestLexer_Brackets(t *testing.T) {
	toks := collect(t, "load r0, [count]")
	require.Len(t, toks, 7)
	assert.Equal(t, lexer.TokenLBracket, toks[3].Type)
	assert.Equal(t, lexer.TokenLabel, toks[4].Type)
	assert.Equal(t, "COUNT", toks[4].Text)
	assert.Equal(t, lexer.TokenRBracket, toks[5].Type)
}

func TestLexer_Directive(t *testing.T) {
	toks := collect(t, ".word 1, 2, 3")
	require.Len(t, toks, 7)
	assert.Equal(t, lexer.TokenDirective, toks[0].Type)
	assert.Equal(t, "WORD", toks[0].Text)
}

func TestLexer_UnknownDirectiveIsError(t *testing.T) {
	lx := lexer.New(".bogus", 1)
	_, err := lx.GetToken()
	require.Error(t, err)
}

func TestLexer_UnexpectedCharacter(t *testing.T) {
	lx := lexer.New("mov r0, $5", 1)
	_, _ = lx.GetToken()
	_, _ = lx.GetToken()
	_, _ = lx.GetToken()
	_, err := lx.GetToken()
	require.Error(t, err)
	var lexErr *lexer.Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, 1, lexErr.Pos.Line)
}

func TestLexer_LabelColon(t *testing.T) {
	toks := collect(t, "start: add r1, r1, r2")
	require.Equal(t, lexer.TokenLabel, toks[0].Type)
	require.Equal(t, "START", toks[0].Text)
	require.Equal(t, lexer.TokenColon, toks[1].Type)
	require.Equal(t, lexer.TokenInstruction, toks[2].Type)
}

func TestLexer_EOFRepeats(t *testing.T) {
	lx := lexer.New("", 1)
	tok1, err := lx.GetToken()
	require.NoError(t, err)
	tok2, err := lx.GetToken()
	require.NoError(t, err)
	assert.Equal(t, lexer.TokenEOF, tok1.Type)
	assert.Equal(t, lexer.TokenEOF, tok2.Type)
}

func TestLexer_Peek(t *testing.T) {
	lx := lexer.New("mov r0, 1", 1)
	peeked, err := lx.Peek()
	require.NoError(t, err)
	assert.Equal(t, lexer.TokenInstruction, peeked.Type)

	got, err := lx.GetToken()
	require.NoError(t, err)
	assert.Equal(t, peeked, got)
}
