// Package fuzztests houses Go fuzz harnesses for the static pipeline
// (source -> lexer -> parser -> extract -> analyzers). They guard against
// panics and hangs on arbitrary scripts; the analyzers must turn anything
// they cannot interpret into diagnostics.
//
// Назначение: загрузить байты в FileSet и прогнать их через лексер, парсер
// и анализаторы без записи на диск.
package fuzztests
