// Package xfile 提供日志子系统使用的文件系统工具。
//
// # 路径
//
//   - SanitizeName: 校验单个文件名（不含目录分隔符），用于配置中的日志文件名
//   - SafeJoin: 将相对路径拼接到绝对基准目录，结果保证不越出基准目录
//
// 路径穿越检测按路径段精确匹配，只有 ".." 作为独立路径段时才被拒绝，
// "..config" 这类文件名是合法的。
//
// # 目录与文件
//
//   - EnsureDir / EnsureDirPath: 创建父目录或目录本身，默认权限 0750
//   - CopyFile: 先写临时文件再 rename，目标位置不会出现半截内容
//   - CreationTime: 读取文件创建时间，平台不支持时退回修改时间
//
// 预定义错误变量支持 [errors.Is] 判断：
//
//	_, err := xfile.SafeJoin("/var/log", "../etc/passwd")
//	if errors.Is(err, xfile.ErrPathTraversal) {
//	    // 处理路径穿越
//	}
package xfile
