// Package fuzztests houses Go fuzz harnesses that exercise the tagcopy
// front end (source -> lexer -> parser -> sema). Its goal is to smoke test
// robustness and guard against panics, hangs or broken spans on arbitrary
// inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и классификатор.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/sema,
// internal/diag, internal/ast, internal/testkit.

package fuzztests
