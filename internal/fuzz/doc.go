// Package fuzztests houses Go fuzz harnesses for the interpreter pipeline
// (source -> lexer -> parser -> machine). They guard against panics, hangs
// and broken invariants on arbitrary inputs.
//
// Назначение: загружать произвольные байты в FileSet и прогонять их через
// лексер, парсер и машину.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.

package fuzztests
