// Package fuzztests houses Go fuzz harnesses for the parts of mend that read
// untrusted project content: source scanning, manifest decoding, findings
// documents, and whole repair sessions over arbitrary source units. The goal
// is to catch panics, non-terminating sessions, and bookkeeping drift.
//
// Назначение: прогонять произвольные байты через сканер исходников, TOML
// манифест, документ находок и полный цикл проверка/исправление.
//
// Не делает: генерацию корпусов, запись файлов на диск, выполнение CLI.
//
// Зависимости: internal/source, internal/project, internal/verify,
// internal/check, internal/fixers, internal/repair, internal/testkit.

package fuzztests
